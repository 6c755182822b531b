package model

import "testing"

func TestGetter_IsValid(t *testing.T) {
	for _, tc := range []struct {
		getter Getter
		want   bool
	}{
		{GetterString, true},
		{GetterBool, true},
		{GetterInt, true},
		{Getter(""), false},
		{Getter("get_float"), false},
	} {
		if got := tc.getter.IsValid(); got != tc.want {
			t.Errorf("Getter(%q).IsValid() = %v, want %v", tc.getter, got, tc.want)
		}
	}
}

func TestGetter_Zero(t *testing.T) {
	for _, tc := range []struct {
		getter Getter
		want   any
	}{
		{GetterString, ""},
		{GetterBool, false},
		{GetterInt, 0},
	} {
		if got := tc.getter.Zero(); got != tc.want {
			t.Errorf("Getter(%q).Zero() = %#v, want %#v", tc.getter, got, tc.want)
		}
	}
}

func TestFieldType_IsValid(t *testing.T) {
	for _, tc := range []struct {
		typ  FieldType
		want bool
	}{
		{FieldTypeString, true},
		{FieldTypeInteger, true},
		{FieldTypeFloat, true},
		{FieldTypeBoolean, true},
		{FieldTypeEnum, true},
		{FieldType(""), false},
		{FieldType("timestamp"), false},
	} {
		if got := tc.typ.IsValid(); got != tc.want {
			t.Errorf("FieldType(%q).IsValid() = %v, want %v", tc.typ, got, tc.want)
		}
	}
}

func TestTypeDef_Validate(t *testing.T) {
	for _, tc := range []struct {
		name    string
		def     TypeDef
		wantErr bool
	}{
		{
			name: "valid",
			def: TypeDef{
				Name: "storage.backend",
				Fields: []FieldDef{
					{Name: "host", Type: FieldTypeString},
					{Name: "port", Type: FieldTypeInteger},
				},
				EnvFields: map[string]Getter{"host": GetterString},
			},
		},
		{
			name:    "empty name",
			def:     TypeDef{Name: "  "},
			wantErr: true,
		},
		{
			name: "duplicate field",
			def: TypeDef{
				Name: "t",
				Fields: []FieldDef{
					{Name: "host", Type: FieldTypeString},
					{Name: "host", Type: FieldTypeString},
				},
			},
			wantErr: true,
		},
		{
			name: "unknown field type",
			def: TypeDef{
				Name:   "t",
				Fields: []FieldDef{{Name: "host", Type: FieldType("text")}},
			},
			wantErr: true,
		},
		{
			name: "enum without values",
			def: TypeDef{
				Name:   "t",
				Fields: []FieldDef{{Name: "mode", Type: FieldTypeEnum}},
			},
			wantErr: true,
		},
		{
			name: "unknown getter",
			def: TypeDef{
				Name:      "t",
				Fields:    []FieldDef{{Name: "host", Type: FieldTypeString}},
				EnvFields: map[string]Getter{"host": Getter("fetch")},
			},
			wantErr: true,
		},
	} {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.def.Validate()
			if (err != nil) != tc.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tc.wantErr)
			}
		})
	}
}

func TestRecord_EnvDefault(t *testing.T) {
	r := &Record{}
	if got := r.EnvDefault("host_env_default"); got != nil {
		t.Errorf("EnvDefault on empty record = %v, want nil", got)
	}
	r.SetEnvDefault("host_env_default", "fallback.example.com")
	if got := r.EnvDefault("host_env_default"); got != "fallback.example.com" {
		t.Errorf("EnvDefault = %v, want fallback.example.com", got)
	}
}
