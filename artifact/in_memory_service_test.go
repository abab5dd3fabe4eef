// Copyright 2025 The Go A2A Authors
// SPDX-License-Identifier: Apache-2.0

package artifact

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestInMemoryServiceVersioning(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewInMemoryService()

	v0, err := svc.SaveArtifact(ctx, "app", "user", "sess", "report.json", NewTextPart(`{"v": 0}`, "application/json"))
	if err != nil {
		t.Fatal(err)
	}
	v1, err := svc.SaveArtifact(ctx, "app", "user", "sess", "report.json", NewTextPart(`{"v": 1}`, "application/json"))
	if err != nil {
		t.Fatal(err)
	}
	if v0 != 0 || v1 != 1 {
		t.Errorf("versions = %d, %d; want 0, 1", v0, v1)
	}

	// A negative version loads the latest.
	latest, err := svc.LoadArtifact(ctx, "app", "user", "sess", "report.json", -1)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(latest.InlineData.Data); got != `{"v": 1}` {
		t.Errorf("latest data = %q, want %q", got, `{"v": 1}`)
	}

	first, err := svc.LoadArtifact(ctx, "app", "user", "sess", "report.json", 0)
	if err != nil {
		t.Fatal(err)
	}
	if got := string(first.InlineData.Data); got != `{"v": 0}` {
		t.Errorf("version 0 data = %q, want %q", got, `{"v": 0}`)
	}

	// A version that was never saved is an error, not the latest.
	if _, err := svc.LoadArtifact(ctx, "app", "user", "sess", "report.json", 7); err == nil {
		t.Error("LoadArtifact(version=7) = nil error, want error for unsaved version")
	}

	versions, err := svc.ListVersions(ctx, "app", "user", "sess", "report.json")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]int{0, 1}, versions); diff != "" {
		t.Errorf("ListVersions mismatch (-want +got):\n%s", diff)
	}
}

func TestInMemoryServiceListKeys(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewInMemoryService()

	if _, err := svc.SaveArtifact(ctx, "app", "user", "sess", "poster.png", NewPart([]byte{1}, "image/png")); err != nil {
		t.Fatal(err)
	}
	// "user:" names live in the user namespace and show up across sessions.
	if _, err := svc.SaveArtifact(ctx, "app", "user", "sess", "user:profile.json", NewTextPart("{}", "application/json")); err != nil {
		t.Fatal(err)
	}

	keys, err := svc.ListArtifactKeys(ctx, "app", "user", "other_sess")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"user:profile.json"}, keys); diff != "" {
		t.Errorf("cross-session keys mismatch (-want +got):\n%s", diff)
	}

	keys, err = svc.ListArtifactKeys(ctx, "app", "user", "sess")
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"poster.png", "user:profile.json"}, keys); diff != "" {
		t.Errorf("session keys mismatch (-want +got):\n%s", diff)
	}
}

func TestInMemoryServiceDelete(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	svc := NewInMemoryService()

	if _, err := svc.SaveArtifact(ctx, "app", "user", "sess", "tmp.txt", NewTextPart("x", "text/plain")); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteArtifact(ctx, "app", "user", "sess", "tmp.txt"); err != nil {
		t.Fatal(err)
	}
	part, err := svc.LoadArtifact(ctx, "app", "user", "sess", "tmp.txt", -1)
	if err != nil {
		t.Fatal(err)
	}
	if part != nil {
		t.Error("LoadArtifact after delete returned a part")
	}
}
