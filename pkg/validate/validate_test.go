package validate_test

import (
	"math"
	"testing"

	"github.com/telascatalogo/telas/pkg/validate"
)

func ptr(f float64) *float64 { return &f }

type fabricInput struct {
	Name     string   `json:"name"          validate:"required,max=20"`
	Price    *float64 `json:"pricePerMeter" validate:"required,finite,gte=0"`
	Category string   `json:"category"      validate:"required"`
	Width    int      `json:"width"         validate:"gte=0"`
	Image    string   `json:"imageUrl"      validate:"nullable,url"`
}

func TestValidInput(t *testing.T) {
	errs := validate.Struct(fabricInput{
		Name:     "Seda Elegante",
		Price:    ptr(1200),
		Category: "Seda",
		Width:    140,
		Image:    "https://images.pexels.com/photos/6292843/x.jpeg",
	})
	if validate.HasErrors(errs) {
		t.Errorf("expected no errors, got: %v", errs)
	}
}

func TestRequiredFails(t *testing.T) {
	errs := validate.Struct(fabricInput{})
	for _, field := range []string{"name", "pricePerMeter", "category"} {
		if _, ok := errs[field]; !ok {
			t.Errorf("expected %s to be required, got: %v", field, errs)
		}
	}
	if _, ok := errs["width"]; ok {
		t.Error("width 0 should pass gte=0")
	}
}

func TestRequiredWhitespaceIsEmpty(t *testing.T) {
	errs := validate.Struct(fabricInput{Name: "   ", Price: ptr(1), Category: "Lino"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected whitespace-only name to be rejected")
	}
}

func TestPointerToZeroIsPresent(t *testing.T) {
	errs := validate.Struct(fabricInput{Name: "Gratis", Price: ptr(0), Category: "Lino"})
	if validate.HasErrors(errs) {
		t.Errorf("expected zero price to pass, got: %v", errs)
	}
}

func TestPointerNegativeFails(t *testing.T) {
	errs := validate.Struct(fabricInput{Name: "x", Price: ptr(-1), Category: "Lino"})
	if _, ok := errs["pricePerMeter"]; !ok {
		t.Error("expected negative price to fail")
	}
}

func TestFiniteRule(t *testing.T) {
	for _, f := range []float64{math.NaN(), math.Inf(1)} {
		errs := validate.Struct(fabricInput{Name: "x", Price: ptr(f), Category: "Lino"})
		if _, ok := errs["pricePerMeter"]; !ok {
			t.Errorf("expected %v to fail", f)
		}
	}
}

func TestMaxLength(t *testing.T) {
	errs := validate.Struct(fabricInput{Name: "a very long fabric name indeed", Price: ptr(1), Category: "Lino"})
	if _, ok := errs["name"]; !ok {
		t.Error("expected long name to fail")
	}
}

func TestNullableSkipsRules(t *testing.T) {
	base := fabricInput{Name: "x", Price: ptr(1), Category: "Lino"}
	if errs := validate.Struct(base); validate.HasErrors(errs) {
		t.Errorf("expected empty nullable to pass: %v", errs)
	}
	base.Image = "not-a-url"
	if errs := validate.Struct(base); !validate.HasErrors(errs) {
		t.Error("expected invalid URL to fail")
	}
}

func TestURLAcceptsAbsolutePath(t *testing.T) {
	type in struct {
		Image string `json:"imageUrl" validate:"required,url"`
	}
	if errs := validate.Struct(in{Image: "/storage/uploads/a.png"}); validate.HasErrors(errs) {
		t.Errorf("expected absolute path to pass: %v", errs)
	}
	if errs := validate.Struct(in{Image: "//evil.example/a.png"}); !validate.HasErrors(errs) {
		t.Error("expected protocol-relative URL to fail")
	}
}

func TestInRule(t *testing.T) {
	type in struct {
		Category string `json:"category" validate:"required,in=Algodón,Seda,Lino,max=10"`
	}
	if errs := validate.Struct(in{Category: "Lana"}); !validate.HasErrors(errs) {
		t.Error("expected unknown category to fail")
	}
	if errs := validate.Struct(in{Category: "Seda"}); validate.HasErrors(errs) {
		t.Errorf("expected Seda to pass: %v", errs)
	}
}

func TestBetweenRule(t *testing.T) {
	type in struct {
		Meters float64 `json:"meters" validate:"required,between=0.5,1000"`
	}
	if errs := validate.Struct(in{Meters: 0.2}); !validate.HasErrors(errs) {
		t.Error("expected meters < 0.5 to fail")
	}
	if errs := validate.Struct(in{Meters: 2.5}); validate.HasErrors(errs) {
		t.Errorf("expected 2.5 to pass: %v", errs)
	}
}

func TestNilStructPointer(t *testing.T) {
	var in *fabricInput
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		t.Errorf("nil pointer should yield no errors, got %v", errs)
	}
}
