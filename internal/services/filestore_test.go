package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestLocalStore(t *testing.T) {
	ctx := context.Background()
	root := t.TempDir()
	store := NewLocalStore(root, "http://localhost:8080/")

	p, err := store.Save(ctx, "images/albums/7", "photo.jpg", []byte("jpeg"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if p != "images/albums/7/photo.jpg" {
		t.Errorf("Save() path = %q", p)
	}
	if _, err := os.Stat(filepath.Join(root, "images", "albums", "7", "photo.jpg")); err != nil {
		t.Errorf("file not written: %v", err)
	}
	if got := store.URL(p); got != "http://localhost:8080/images/albums/7/photo.jpg" {
		t.Errorf("URL() = %q", got)
	}

	if err := store.Delete(ctx, p); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if err := store.Delete(ctx, p); err != nil {
		t.Errorf("Delete() of missing file error = %v; want nil", err)
	}
}

func TestLocalStoreRejectsEscapingPaths(t *testing.T) {
	store := NewLocalStore(t.TempDir(), "")
	if _, err := store.Save(context.Background(), "../outside", "x.jpg", []byte("x")); err == nil {
		t.Error("Save() outside root error = nil; want error")
	}
	if err := store.Delete(context.Background(), "../../etc/passwd"); err == nil {
		t.Error("Delete() outside root error = nil; want error")
	}
}
