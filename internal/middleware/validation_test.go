package middleware

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

// Request shape mirroring the product creation payload.
type testCreateRequest struct {
	Name          string  `json:"name" validate:"required,min=3,max=200"`
	Price         float64 `json:"price" validate:"required,gt=0"`
	StockQuantity int     `json:"stockQuantity" validate:"gte=0"`
	SKU           string  `json:"sku" validate:"required,min=3,max=50"`
}

func TestProperty_RequiredFieldValidationWorks(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("missing required fields are rejected", prop.ForAll(
		func(includeName bool, includePrice bool, includeSKU bool) bool {
			reqMap := make(map[string]interface{})

			if includeName {
				reqMap["name"] = "Wireless Mouse"
			}
			if includePrice {
				reqMap["price"] = 49.90
			}
			if includeSKU {
				reqMap["sku"] = "MOUSE-001"
			}
			reqMap["stockQuantity"] = 5

			allFieldsPresent := includeName && includePrice && includeSKU

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testCreateRequest
			err := DecodeAndValidate(req, &testReq)

			if allFieldsPresent {
				return err == nil
			}
			return err != nil
		},
		gen.Bool(),
		gen.Bool(),
		gen.Bool(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that validation errors are properly formatted
func TestProperty_ValidationErrorsAreFormatted(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("validation errors include field information", prop.ForAll(
		func() bool {
			reqMap := map[string]interface{}{
				"name":          "ab", // below the 3-character minimum
				"price":         49.90,
				"stockQuantity": 5,
				"sku":           "MOUSE-001",
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testCreateRequest
			err := DecodeAndValidate(req, &testReq)

			if err == nil {
				return false
			}

			validationErrors := FormatValidationErrors(err)
			if len(validationErrors) == 0 {
				return false
			}

			for _, ve := range validationErrors {
				if ve.Field == "" || ve.Message == "" {
					return false
				}
			}

			return true
		},
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test that valid requests pass validation
func TestProperty_ValidRequestsPassValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("valid requests pass validation", prop.ForAll(
		func(seed int) bool {
			names := []string{"Wireless Mouse", "Mechanical Keyboard", "Gaming Monitor", "Office Chair"}
			prices := []float64{49.90, 129.00, 899.99, 1500.00}

			if seed < 0 {
				seed = -seed
			}

			reqMap := map[string]interface{}{
				"name":          names[seed%len(names)],
				"price":         prices[seed%len(prices)],
				"stockQuantity": seed % 100,
				"sku":           "SKU-000",
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testCreateRequest
			err := DecodeAndValidate(req, &testReq)

			return err == nil
		},
		gen.Int(),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}

// Test stock quantity range validation
func TestProperty_StockQuantityRangeValidation(t *testing.T) {
	properties := gopter.NewProperties(nil)

	properties.Property("negative stock quantities are rejected", prop.ForAll(
		func(quantity int) bool {
			reqMap := map[string]interface{}{
				"name":          "Wireless Mouse",
				"price":         49.90,
				"stockQuantity": quantity,
				"sku":           "MOUSE-001",
			}

			reqBody, _ := json.Marshal(reqMap)
			req := httptest.NewRequest("POST", "/api/products", bytes.NewReader(reqBody))
			req.Header.Set("Content-Type", "application/json")

			var testReq testCreateRequest
			err := DecodeAndValidate(req, &testReq)

			if quantity >= 0 {
				return err == nil
			}
			return err != nil
		},
		gen.IntRange(-100, 200),
	))

	properties.TestingRun(t, gopter.ConsoleReporter(false))
}
