package catalog

import (
	"sort"
	"sync"
)

// FieldKind tags how a credential field should be captured.
type FieldKind string

const (
	FieldText     FieldKind = "text"
	FieldPassword FieldKind = "password"
	FieldSelect   FieldKind = "select"
)

// CredentialField describes one input a provider needs before it can be
// configured. Fields are interpreted uniformly by the rendering layer; there
// is no per-provider branching.
type CredentialField struct {
	Key      string    `json:"key"`
	Label    string    `json:"label"`
	Kind     FieldKind `json:"kind"`
	Required bool      `json:"required"`
	Options  []string  `json:"options,omitempty"`
}

// FieldCatalog is an explicit, injectable lookup of provider credential
// fields. It replaces ad hoc module-level caches: callers hold a catalog
// instance and refresh it through Replace.
type FieldCatalog struct {
	mu     sync.RWMutex
	fields map[string][]CredentialField
}

// NewFieldCatalog seeds a catalog from the provided table. A nil table yields
// the built-in defaults.
func NewFieldCatalog(table map[string][]CredentialField) *FieldCatalog {
	if table == nil {
		table = DefaultCredentialFields()
	}
	c := &FieldCatalog{}
	c.Replace(table)
	return c
}

// Fields returns the ordered field descriptors for a provider.
func (c *FieldCatalog) Fields(provider string) ([]CredentialField, bool) {
	slug := NormalizeProviderSlug(provider)
	c.mu.RLock()
	defer c.mu.RUnlock()
	fields, ok := c.fields[slug]
	if !ok {
		return nil, false
	}
	out := make([]CredentialField, len(fields))
	copy(out, fields)
	return out, true
}

// Providers lists the known provider slugs in sorted order.
func (c *FieldCatalog) Providers() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	slugs := make([]string, 0, len(c.fields))
	for slug := range c.fields {
		slugs = append(slugs, slug)
	}
	sort.Strings(slugs)
	return slugs
}

// Replace swaps the whole table, the explicit refresh operation.
func (c *FieldCatalog) Replace(table map[string][]CredentialField) {
	next := make(map[string][]CredentialField, len(table))
	for provider, fields := range table {
		copied := make([]CredentialField, len(fields))
		copy(copied, fields)
		next[NormalizeProviderSlug(provider)] = copied
	}
	c.mu.Lock()
	c.fields = next
	c.mu.Unlock()
}

// DefaultCredentialFields returns the built-in provider field table.
func DefaultCredentialFields() map[string][]CredentialField {
	return map[string][]CredentialField{
		"openai": {
			{Key: "api_key", Label: "API Key", Kind: FieldPassword, Required: true},
			{Key: "api_base", Label: "API Base", Kind: FieldText},
			{Key: "organization", Label: "Organization", Kind: FieldText},
		},
		"azure": {
			{Key: "api_key", Label: "API Key", Kind: FieldPassword, Required: true},
			{Key: "api_base", Label: "API Base", Kind: FieldText, Required: true},
			{Key: "api_version", Label: "API Version", Kind: FieldText, Required: true},
		},
		"anthropic": {
			{Key: "api_key", Label: "API Key", Kind: FieldPassword, Required: true},
		},
		"bedrock": {
			{Key: "aws_access_key_id", Label: "AWS Access Key ID", Kind: FieldText, Required: true},
			{Key: "aws_secret_access_key", Label: "AWS Secret Access Key", Kind: FieldPassword, Required: true},
			{Key: "aws_region_name", Label: "AWS Region", Kind: FieldSelect, Required: true,
				Options: []string{"us-east-1", "us-west-2", "eu-central-1", "ap-northeast-1"}},
		},
		"vertex": {
			{Key: "vertex_project", Label: "Project ID", Kind: FieldText, Required: true},
			{Key: "vertex_location", Label: "Location", Kind: FieldText, Required: true},
			{Key: "vertex_credentials", Label: "Service Account JSON", Kind: FieldPassword, Required: true},
		},
		"openai-compatible": {
			{Key: "api_key", Label: "API Key", Kind: FieldPassword},
			{Key: "api_base", Label: "API Base", Kind: FieldText, Required: true},
		},
	}
}
