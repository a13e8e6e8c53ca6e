package service

import (
	"testing"

	"github.com/kds-next/internal/constants"
	"github.com/kds-next/internal/models"
)

func TestClassifySingleMatch(t *testing.T) {
	classifier := NewClassifier()
	got := classifier.Classify(models.OrderItem{Name: "Ribeye Steak"})
	if len(got) != 1 || got[0] != constants.StationCategoryGrill {
		t.Fatalf("expected [grill], got %v", got)
	}
}

func TestClassifyMultipleMatches(t *testing.T) {
	classifier := NewClassifier()
	got := classifier.Classify(models.OrderItem{Name: "Grilled Chicken with Fries"})
	if len(got) != 2 {
		t.Fatalf("expected 2 categories, got %v", got)
	}
	if got[0] != constants.StationCategoryGrill || got[1] != constants.StationCategoryFryer {
		t.Fatalf("unexpected categories: %v", got)
	}
}

func TestClassifyModifierContributes(t *testing.T) {
	classifier := NewClassifier()
	got := classifier.Classify(models.OrderItem{Name: "House Platter", Modifier: "extra fried tofu"})
	if len(got) != 1 || got[0] != constants.StationCategoryFryer {
		t.Fatalf("expected [fryer], got %v", got)
	}
}

func TestClassifyNoMatch(t *testing.T) {
	classifier := NewClassifier()
	got := classifier.Classify(models.OrderItem{Name: "Mystery Special"})
	if len(got) != 0 {
		t.Fatalf("expected no categories, got %v", got)
	}
}

func TestClassifyOverrideWins(t *testing.T) {
	classifier := NewClassifier()
	classifier.SetOverride("special-42", constants.StationCategoryDessert)
	got := classifier.Classify(models.OrderItem{Name: "Grilled Surprise", MenuItemKey: "SPECIAL-42"})
	if len(got) != 1 || got[0] != constants.StationCategoryDessert {
		t.Fatalf("expected override [dessert], got %v", got)
	}
}

func TestClassifyDeterministic(t *testing.T) {
	classifier := NewClassifier()
	item := models.OrderItem{Name: "BBQ Wings with Cola"}
	first := classifier.Classify(item)
	for i := 0; i < 10; i++ {
		got := classifier.Classify(item)
		if len(got) != len(first) {
			t.Fatalf("classification not stable: %v vs %v", first, got)
		}
		for j := range got {
			if got[j] != first[j] {
				t.Fatalf("classification order not stable: %v vs %v", first, got)
			}
		}
	}
}
