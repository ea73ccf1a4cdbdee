//go:build pact
// +build pact

package pacttest

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
)

const (
	ProviderName = "commerce-api"
	ConsumerName = "storefront-bff"

	StateProductsBaseline = "products baseline"
	StateProductExists    = "product with id p-101 exists"
	StateProductMissing   = "no product with id p-404"
	StateAdminSession     = "token pact-admin-token belongs to an admin"
	StateShopperSession   = "token pact-shopper-token belongs to a shopper"
	StateAddressesBase    = "shopper has one saved address"
)

const (
	ExistingProductID = "p-101"
	MissingProductID  = "p-404"
	ExistingAddressID = "a-201"

	AdminToken    = "pact-admin-token"
	ShopperToken  = "pact-shopper-token"
	AdminEmail    = "admin@pact.example"
	AdminPassword = "pact-pass"
)

// PactDir returns the workspace-level directory for generated pact files.
func PactDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "pacts")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact dir: %v", err)
	}
	return dir
}

// PactFile returns the canonical pact file path for the storefront consumer.
func PactFile(t testing.TB) string {
	t.Helper()
	return filepath.Join(PactDir(t), ConsumerName+"-"+ProviderName+".json")
}

// LogDir returns the log output directory for pact-go.
func LogDir(t testing.TB) string {
	t.Helper()
	dir := filepath.Join(projectRoot(t), "bin", "pact-logs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create pact log dir: %v", err)
	}
	return dir
}

// ExampleProductPayload is the product the provider serves for StateProductExists.
func ExampleProductPayload() map[string]any {
	return map[string]any{
		"id":             ExistingProductID,
		"name":           "Pact Kettle",
		"category":       "Kitchen",
		"price":          49.5,
		"description":    "A kettle for contract tests",
		"manufacturer":   "Pact Appliances",
		"availableItems": 12,
		"imageUrl":       "https://example.pact/products/kettle.png",
		"createdAt":      "2024-06-12T10:00:00Z",
	}
}

// ExampleAddressPayload is the address saved under StateAddressesBase.
func ExampleAddressPayload() map[string]any {
	return map[string]any{
		"id":            ExistingAddressID,
		"name":          "Home",
		"contactNumber": "9999999999",
		"street":        "1 Contract Lane",
		"city":          "Pactville",
		"state":         "PV",
		"landmark":      "",
		"zipcode":       "560001",
	}
}

// projectRoot walks up from this file to the workspace root.
func projectRoot(t testing.TB) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("cannot determine caller for pact paths")
	}
	return filepath.Clean(filepath.Join(filepath.Dir(file), "..", ".."))
}
