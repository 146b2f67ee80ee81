package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCallbackValidator(t *testing.T) {
	v := ValidatorFor("callback")

	assert.Empty(t, v(map[string]any{
		"customer_id":    "c-1",
		"scheduled_date": "2024-07-01",
		"description":    "noise in car",
		"technicians":    []string{"1", "2", "3"},
	}))

	errs := v(map[string]any{
		"customer_id":    "c-1",
		"scheduled_date": "2024-07-01",
		"description":    "noise in car",
		"technicians":    []any{"1", "2", "3", "4"},
	})
	assert.Equal(t, map[string]string{"technicians": "At most 3 can be selected"}, errs)
}

func TestRepairValidatorBranchesOnExistingCustomer(t *testing.T) {
	v := ValidatorFor("repair")
	base := func() map[string]any {
		return map[string]any{"scheduled_date": "2024-07-01", "description": "door sensor"}
	}

	existing := base()
	existing["is_existing_customer"] = true
	errs := v(existing)
	assert.Equal(t, "Customer id is required", errs["customer_id"])
	assert.NotContains(t, errs, "customer_name")
	assert.NotContains(t, errs, "contact_number")

	walkIn := base()
	walkIn["is_existing_customer"] = false
	errs = v(walkIn)
	assert.NotContains(t, errs, "customer_id")
	assert.Equal(t, "Customer name is required", errs["customer_name"])
	assert.Equal(t, "Contact number is required", errs["contact_number"])

	walkIn["customer_name"] = "Hotel Aster"
	walkIn["contact_number"] = "98400 00000"
	assert.Empty(t, v(walkIn))
}

func TestCustomerValidator(t *testing.T) {
	v := ValidatorFor("customer")
	values := map[string]any{
		"name":           "Hotel Aster",
		"site_name":      "Aster Tower",
		"job_number":     "J-104",
		"contact_person": "Ravi",
		"phone":          "9840000000",
		"area":           "Adyar",
		"route":          "4",
		"amc_valid_from": "2024-04-01",
		"amc_valid_to":   "2025-03-31",
		"amc_amount":     "45000",
	}
	assert.Empty(t, v(values))

	values["route"] = "north"
	values["amc_amount"] = "lots"
	delete(values, "phone")
	assert.Equal(t, map[string]string{
		"route":      "Route must be a number",
		"amc_amount": "Amc amount must be a number",
		"phone":      "Phone is required",
	}, v(values))
}

func TestValidatorForUnknownForm(t *testing.T) {
	assert.Nil(t, ValidatorFor("invoice"))
}

func TestValuesDropsBlanksAndParsesBooleans(t *testing.T) {
	got := Values(map[string]string{
		"name":                 "  Aster ",
		"notes":                "   ",
		"is_existing_customer": "true",
		"paid":                 "false",
	})
	assert.Equal(t, map[string]any{"name": "Aster", "is_existing_customer": true, "paid": false}, got)
}

func TestLabel(t *testing.T) {
	assert.Equal(t, "Amc valid to", Label("amc_valid_to"))
	assert.Equal(t, "", Label(""))
}
