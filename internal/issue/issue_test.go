// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"strings"
	"testing"
)

func TestCatalog_EveryIdHasAnEntry(t *testing.T) {
	t.Parallel()

	ids := []Id{
		UnsupportedPlatformId,
		ConflictingOptionsId,
		InvalidVersionId,
		DownloadFailedId,
		ChecksumMismatchId,
		DirectoryConflictId,
		PthFileNotFoundId,
		PipBootstrapFailedId,
		ConfigLoadFailedId,
		PermissionDeniedId,
	}

	if UnsupportedPlatformId != 1 {
		t.Errorf("UnsupportedPlatformId = %d, want 1", UnsupportedPlatformId)
	}

	for _, id := range ids {
		entry := Get(id)
		if entry == nil {
			t.Errorf("Get(%d) returned nil", id)
			continue
		}
		if entry.Id() != id {
			t.Errorf("Get(%d).Id() = %d", id, entry.Id())
		}
		if strings.TrimSpace(string(entry.MarkdownMsg())) == "" {
			t.Errorf("entry %d has an empty message", id)
		}
	}

	if got := len(Values()); got != len(ids) {
		t.Errorf("len(Values()) = %d, want %d", got, len(ids))
	}
}

func TestValues_SortedById(t *testing.T) {
	t.Parallel()

	values := Values()
	for i := 1; i < len(values); i++ {
		if values[i-1].Id() >= values[i].Id() {
			t.Fatalf("Values() not sorted at %d: %d >= %d", i, values[i-1].Id(), values[i].Id())
		}
	}
}

func TestGet_Unknown(t *testing.T) {
	t.Parallel()

	if Get(Id(9999)) != nil {
		t.Error("Get(9999) should return nil")
	}
}

func TestIssue_DocLinksAreCopied(t *testing.T) {
	t.Parallel()

	entry := Get(DownloadFailedId)
	links := entry.DocLinks()
	if len(links) == 0 {
		t.Fatal("download entry should carry a doc link")
	}
	links[0] = "mutated"
	if entry.DocLinks()[0] == "mutated" {
		t.Error("DocLinks() must return a copy")
	}
}

func TestIssue_Render(t *testing.T) {
	t.Parallel()

	out, err := Get(UnsupportedPlatformId).Render("notty")
	if err != nil {
		t.Fatalf("Render() error: %v", err)
	}
	if !strings.Contains(out, "Unsupported platform") {
		t.Errorf("rendered output missing title:\n%s", out)
	}
	if !strings.Contains(out, "See also") {
		t.Errorf("rendered output missing doc links section:\n%s", out)
	}
}
