package validate

import (
	"fmt"
	"os"

	vd "github.com/bytedance/go-tagexpr/v2/validator"
	"gopkg.in/yaml.v3"

	"playbridge/internal/types"
)

func init() {
	vd.SetErrorFactory(func(failPath, msg string) error {
		return fmt.Errorf(`"validation failed: %s","msg": "%s"`, failPath, msg)
	})
}

// ProductManifest is the YAML manifest of products registered at boot
type ProductManifest struct {
	Products        []ManifestProduct `yaml:"products" json:"products" vd:"len($)>0;msg:sprintf('invalid parameter: %v;products must satisfy the expr: len($)>0',$)"`
	VerificationKey string            `yaml:"verificationKey,omitempty" json:"verificationKey,omitempty" vd:"-"`
}

// ManifestProduct is one registered product entry
type ManifestProduct struct {
	ID   string `yaml:"id" json:"id" vd:"len($)>0;msg:sprintf('invalid parameter: %v;id must satisfy the expr: len($)>0',$)"`
	Kind string `yaml:"kind" json:"kind" vd:"$=='inapp'||$=='subs';msg:sprintf('invalid parameter: %v;kind must be inapp or subs',$)"`
}

// LoadProductManifest reads and validates a manifest file
func LoadProductManifest(path string) (*ProductManifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read product manifest %s: %w", path, err)
	}
	return ParseProductManifest(data)
}

// ParseProductManifest parses and validates manifest bytes
func ParseProductManifest(data []byte) (*ProductManifest, error) {
	var manifest ProductManifest
	if err := yaml.Unmarshal(data, &manifest); err != nil {
		return nil, fmt.Errorf("failed to parse product manifest: %w", err)
	}
	if err := vd.Validate(&manifest, true); err != nil {
		return nil, err
	}
	return &manifest, nil
}

// Registered converts the manifest entries to registry products. Duplicate
// ids keep their last entry, matching the session registry's
// last-write-wins rule.
func (m *ProductManifest) Registered() []types.Product {
	products := make([]types.Product, 0, len(m.Products))
	for _, entry := range m.Products {
		products = append(products, types.Product{
			ID:   entry.ID,
			Kind: types.ProductKind(entry.Kind),
		})
	}
	return products
}
