package storage

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestSanitizeFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Relatório de Busca.pdf", "Relatorio_de_Busca.pdf"},
		{"  ação   final!!.pdf ", "acao_final_.pdf"},
		{"C:\\docs\\parecer técnico.pdf", "parecer_tecnico.pdf"},
		{"../../etc/passwd", "passwd"},
		{"___", DefaultFilename},
		{"", DefaultFilename},
		{"名前.pdf", "pdf"},
		{"marca-nova_v2.PDF", "marca-nova_v2.PDF"},
	}
	for _, tt := range tests {
		if got := SanitizeFilename(tt.in); got != tt.want {
			t.Fatalf("SanitizeFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestObjectKey(t *testing.T) {
	at := time.Unix(1710496800, 0)
	got := ObjectKey("search", "abc-123", "Resultado Busca.pdf", at)
	want := "search/abc-123/1710496800_Resultado_Busca.pdf"
	if got != want {
		t.Fatalf("ObjectKey = %q, want %q", got, want)
	}
}

func TestPublicURL(t *testing.T) {
	base := PublicBase(Config{Endpoint: "files.local:9000", UseSSL: true})
	if base != "https://files.local:9000" {
		t.Fatalf("base = %q", base)
	}
	if got := PublicBase(Config{Endpoint: "x", PublicURL: "https://cdn.example.com/"}); got != "https://cdn.example.com" {
		t.Fatalf("public override = %q", got)
	}
	if got := PublicURL(base, "results", "/search/1/a.pdf"); got != "https://files.local:9000/results/search/1/a.pdf" {
		t.Fatalf("url = %q", got)
	}
}

func TestUnconfiguredRefusesUploads(t *testing.T) {
	url, err := Unconfigured{}.Upload(context.Background(), "search/s1/1_a.pdf", []byte("x"), "")
	if !errors.Is(err, ErrNotConfigured) || url != "" {
		t.Fatalf("upload = %q, %v", url, err)
	}
}
