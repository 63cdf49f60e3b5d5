package tags

import "testing"

func TestNewBuilder(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name   string
		prefix string
	}{
		{"simple prefix", "demo"},
		{"with numbers", "prod-01"},
		{"empty string", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			b := NewBuilder(tt.prefix)
			if b == nil {
				t.Fatal("NewBuilder returned nil")
			}

			set := b.Build()

			if set[KeyPrefix] != tt.prefix {
				t.Errorf("expected %s=%q, got %q", KeyPrefix, tt.prefix, set[KeyPrefix])
			}
			if set[KeyManagedBy] != ManagedByNetforge {
				t.Errorf("expected %s=%q, got %q", KeyManagedBy, ManagedByNetforge, set[KeyManagedBy])
			}
			if _, ok := set[KeyName]; ok {
				t.Error("Name tag set without WithName")
			}
		})
	}
}

func TestBuilder_MergePreservesCallerKeys(t *testing.T) {
	t.Parallel()
	set := NewBuilder("demo").
		Merge(map[string]string{
			"team":       "network",
			KeyManagedBy: "someone-else",
		}).
		Build()

	if set["team"] != "network" {
		t.Errorf("expected team=network, got %q", set["team"])
	}
	// Caller values win over generated ones
	if set[KeyManagedBy] != "someone-else" {
		t.Errorf("expected caller override to survive, got %q", set[KeyManagedBy])
	}
}

func TestBuilder_NameWinsOverCallerName(t *testing.T) {
	t.Parallel()
	set := NewBuilder("demo").
		Merge(map[string]string{KeyName: "caller-name"}).
		WithName("demo-igw").
		Build()

	if set[KeyName] != "demo-igw" {
		t.Errorf("expected generated Name to win, got %q", set[KeyName])
	}
}

func TestBuilder_BuildReturnsCopy(t *testing.T) {
	t.Parallel()
	b := NewBuilder("demo").WithName("demo-igw")

	first := b.Build()
	first["mutated"] = "yes"

	second := b.Build()
	if _, ok := second["mutated"]; ok {
		t.Error("Build returned a shared map")
	}
}

func TestSelectorForPrefix(t *testing.T) {
	t.Parallel()
	k, v := SelectorForPrefix("demo")
	if k != KeyPrefix || v != "demo" {
		t.Errorf("unexpected selector %s=%s", k, v)
	}
}
