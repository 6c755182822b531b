package model

import (
	"strings"
	"testing"
)

func TestValidateRecord(t *testing.T) {
	for _, tc := range []struct {
		name    string
		rec     Record
		wantErr string
	}{
		{
			name: "valid",
			rec:  Record{Type: "storage.backend", Name: "Primary"},
		},
		{
			name:    "missing name",
			rec:     Record{Type: "storage.backend"},
			wantErr: "name: is required",
		},
		{
			name:    "missing type",
			rec:     Record{Name: "Primary"},
			wantErr: "type: is required",
		},
		{
			name:    "name too long",
			rec:     Record{Type: "t", Name: strings.Repeat("x", 201)},
			wantErr: "200 characters",
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateRecord(&tc.rec)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateRecord() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("ValidateRecord() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}

func TestValidateAttrs(t *testing.T) {
	defs := []FieldDef{
		{Name: "host", Type: FieldTypeString, Required: true},
		{Name: "port", Type: FieldTypeInteger},
		{Name: "timeout", Type: FieldTypeFloat},
		{Name: "use_tls", Type: FieldTypeBoolean},
		{Name: "mode", Type: FieldTypeEnum, Values: []string{"ftp", "sftp"}},
	}

	for _, tc := range []struct {
		name    string
		attrs   map[string]any
		wantErr string
	}{
		{
			name: "all valid",
			attrs: map[string]any{
				"host":    "example.com",
				"port":    float64(22),
				"timeout": 1.5,
				"use_tls": true,
				"mode":    "sftp",
			},
		},
		{
			name:    "missing required",
			attrs:   map[string]any{"port": float64(22)},
			wantErr: "host: is required",
		},
		{
			name:    "unknown key",
			attrs:   map[string]any{"host": "h", "bogus": 1},
			wantErr: "bogus: unknown field",
		},
		{
			name:    "string type mismatch",
			attrs:   map[string]any{"host": 42},
			wantErr: "host: must be a string",
		},
		{
			name:    "fractional integer",
			attrs:   map[string]any{"host": "h", "port": 8.5},
			wantErr: "port: must be an integer",
		},
		{
			name:    "bool type mismatch",
			attrs:   map[string]any{"host": "h", "use_tls": "yes"},
			wantErr: "use_tls: must be a boolean",
		},
		{
			name:    "enum out of range",
			attrs:   map[string]any{"host": "h", "mode": "scp"},
			wantErr: "mode: must be one of",
		},
		{
			name:  "nil value treated as absent",
			attrs: map[string]any{"host": "h", "port": nil},
		},
		{
			name:  "native int accepted",
			attrs: map[string]any{"host": "h", "port": 22},
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateAttrs(tc.attrs, defs)
			if tc.wantErr == "" {
				if err != nil {
					t.Fatalf("ValidateAttrs() = %v, want nil", err)
				}
				return
			}
			if err == nil || !strings.Contains(err.Error(), tc.wantErr) {
				t.Fatalf("ValidateAttrs() = %v, want error containing %q", err, tc.wantErr)
			}
		})
	}
}
