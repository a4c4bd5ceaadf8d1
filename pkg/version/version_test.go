package version

import "testing"

func TestGetInfo(t *testing.T) {
	info := GetInfo()
	if info.Version == "" || info.GitCommit == "" || info.BuildDate == "" {
		t.Fatalf("expected non-empty version info")
	}
}

func TestShortCommit(t *testing.T) {
	defer func(prev string) { GitCommit = prev }(GitCommit)

	GitCommit = "abcdef123456"
	if ShortCommit() != "abcdef1" {
		t.Fatalf("expected abcdef1, got %s", ShortCommit())
	}
	GitCommit = "abc"
	if ShortCommit() != "abc" {
		t.Fatalf("expected abc, got %s", ShortCommit())
	}
}
