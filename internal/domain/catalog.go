package domain

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed catalog.yaml
var catalogYAML []byte

// Criterion is a single SLICC criterion as shown to the clinician.
type Criterion struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description,omitempty"`
}

// CriterionCatalog is the ordered, read-only list of criteria of one group.
type CriterionCatalog struct {
	group    CriterionGroup
	criteria []Criterion
	index    map[string]int
}

// CatalogView is the serializable form of both catalogs.
type CatalogView struct {
	Clinical    []Criterion `json:"clinical"`
	Immunologic []Criterion `json:"immunologic"`
}

type catalogDocument struct {
	Clinical    []Criterion `yaml:"clinical"`
	Immunologic []Criterion `yaml:"immunologic"`
}

var (
	clinicalCatalog    *CriterionCatalog
	immunologicCatalog *CriterionCatalog
)

func init() {
	clinical, immunologic, err := parseCatalogs(catalogYAML)
	if err != nil {
		panic(fmt.Sprintf("invalid embedded SLICC catalog: %v", err))
	}
	clinicalCatalog = clinical
	immunologicCatalog = immunologic
}

func parseCatalogs(data []byte) (*CriterionCatalog, *CriterionCatalog, error) {
	var doc catalogDocument
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, nil, fmt.Errorf("failed to parse catalog: %w", err)
	}

	clinical, err := newCriterionCatalog(CLINICAL, doc.Clinical)
	if err != nil {
		return nil, nil, err
	}
	immunologic, err := newCriterionCatalog(IMMUNOLOGIC, doc.Immunologic)
	if err != nil {
		return nil, nil, err
	}
	return clinical, immunologic, nil
}

func newCriterionCatalog(group CriterionGroup, criteria []Criterion) (*CriterionCatalog, error) {
	if len(criteria) == 0 {
		return nil, fmt.Errorf("%s catalog is empty", group.Label())
	}

	c := &CriterionCatalog{
		group:    group,
		criteria: criteria,
		index:    make(map[string]int, len(criteria)),
	}
	for i, cr := range criteria {
		if cr.Name == "" {
			return nil, fmt.Errorf("%s catalog entry %d has no name", group.Label(), i)
		}
		if _, dup := c.index[cr.Name]; dup {
			return nil, fmt.Errorf("%s catalog has duplicate entry %q", group.Label(), cr.Name)
		}
		c.index[cr.Name] = i
	}
	return c, nil
}

// ClinicalCatalog returns the 11 SLICC clinical criteria.
func ClinicalCatalog() *CriterionCatalog {
	return clinicalCatalog
}

// ImmunologicCatalog returns the 6 SLICC immunologic criteria.
func ImmunologicCatalog() *CriterionCatalog {
	return immunologicCatalog
}

// CatalogFor returns the catalog of the given group.
func CatalogFor(group CriterionGroup) (*CriterionCatalog, error) {
	switch group {
	case CLINICAL:
		return clinicalCatalog, nil
	case IMMUNOLOGIC:
		return immunologicCatalog, nil
	default:
		return nil, ErrInvalidGroup
	}
}

// Catalogs returns both catalogs in their build-time order.
func Catalogs() CatalogView {
	return CatalogView{
		Clinical:    clinicalCatalog.Criteria(),
		Immunologic: immunologicCatalog.Criteria(),
	}
}

// Group returns the group this catalog covers.
func (c *CriterionCatalog) Group() CriterionGroup {
	return c.group
}

// Criteria returns a copy of the catalog entries in catalog order.
func (c *CriterionCatalog) Criteria() []Criterion {
	out := make([]Criterion, len(c.criteria))
	copy(out, c.criteria)
	return out
}

// Names returns the criterion names in catalog order.
func (c *CriterionCatalog) Names() []string {
	out := make([]string, len(c.criteria))
	for i, cr := range c.criteria {
		out[i] = cr.Name
	}
	return out
}

// Len returns the number of criteria in the catalog.
func (c *CriterionCatalog) Len() int {
	return len(c.criteria)
}

// Contains reports whether name is a criterion of this catalog.
func (c *CriterionCatalog) Contains(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Lookup returns the criterion with the given name.
func (c *CriterionCatalog) Lookup(name string) (Criterion, error) {
	i, ok := c.index[name]
	if !ok {
		return Criterion{}, fmt.Errorf("%w: %q is not a %s criterion", ErrUnknownCriterion, name, c.group.Label())
	}
	return c.criteria[i], nil
}

// Unknown returns the names of sel that are not part of the catalog, in
// selection order.
func (c *CriterionCatalog) Unknown(sel Selection) []string {
	var unknown []string
	for _, n := range sel.names {
		if !c.Contains(n) {
			unknown = append(unknown, n)
		}
	}
	return unknown
}
