package mongo

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestIdentityIndexModels_UniquePerLoginField(t *testing.T) {
	models := identityIndexModels()
	if len(models) != 3 {
		t.Fatalf("expected 3 index models, got %d", len(models))
	}

	want := map[string]bool{
		"lettera_number": false,
		"email":          false,
		"username":       false,
	}

	for _, m := range models {
		keys, ok := m.Keys.(bson.D)
		if !ok || len(keys) != 1 {
			t.Fatalf("expected single-field keys, got %+v", m.Keys)
		}
		field := keys[0].Key
		if _, known := want[field]; !known {
			t.Fatalf("unexpected indexed field %q", field)
		}
		want[field] = true

		if m.Options == nil || m.Options.Unique == nil || !*m.Options.Unique {
			t.Fatalf("index on %q must be unique", field)
		}
		// The constraint is partial: anonymous identities carry no email or
		// username, and email identities carry no number.
		if m.Options.PartialFilterExpression == nil {
			t.Fatalf("index on %q must carry a partial filter", field)
		}
		filter, ok := m.Options.PartialFilterExpression.(bson.M)
		if !ok {
			t.Fatalf("partial filter on %q has unexpected type %T", field, m.Options.PartialFilterExpression)
		}
		if _, scoped := filter[field]; !scoped {
			t.Fatalf("partial filter on %q does not reference the field: %+v", field, filter)
		}
	}

	for field, seen := range want {
		if !seen {
			t.Fatalf("no unique index declared for %q", field)
		}
	}
}
