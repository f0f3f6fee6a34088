package theme

import "testing"

func TestByName(t *testing.T) {
	for _, th := range Available() {
		got, ok := ByName(th.Name)
		if !ok || got.Name != th.Name {
			t.Errorf("ByName(%q) = %v, %v", th.Name, got.Name, ok)
		}
		if th.Hours == "" || th.Money == "" || th.Running == "" {
			t.Errorf("theme %s is missing report colors", th.Name)
		}
	}
	if _, ok := ByName("neon"); ok {
		t.Error("unknown theme should not resolve")
	}
}

func TestSetTheme(t *testing.T) {
	defer SetTheme(Nord)

	SetTheme(Dracula)
	if Current.Theme.Name != "dracula" {
		t.Errorf("Current = %s", Current.Theme.Name)
	}
}
