package entity

// Currencies is a set of currency codes of interest, independent of rates
type Currencies struct {
	codes map[string]struct{}
	order []string
}

// NewCurrencies creates a set holding codes
func NewCurrencies(codes ...string) *Currencies {
	c := &Currencies{codes: make(map[string]struct{}, len(codes))}
	return c.Add(codes...)
}

// Add inserts codes into the set
func (c *Currencies) Add(codes ...string) *Currencies {
	for _, code := range codes {
		if _, exists := c.codes[code]; exists {
			continue
		}
		c.codes[code] = struct{}{}
		c.order = append(c.order, code)
	}
	return c
}

// Delete removes codes from the set
func (c *Currencies) Delete(codes ...string) *Currencies {
	for _, code := range codes {
		if _, exists := c.codes[code]; !exists {
			continue
		}
		delete(c.codes, code)
		for i, existing := range c.order {
			if existing == code {
				c.order = append(c.order[:i], c.order[i+1:]...)
				break
			}
		}
	}
	return c
}

// Has reports whether every one of codes is in the set
func (c *Currencies) Has(codes ...string) bool {
	for _, code := range codes {
		if _, exists := c.codes[code]; !exists {
			return false
		}
	}
	return true
}

// Clear empties the set
func (c *Currencies) Clear() *Currencies {
	c.codes = make(map[string]struct{})
	c.order = nil
	return c
}

// List returns the codes in insertion order
func (c *Currencies) List() []string {
	list := make([]string, len(c.order))
	copy(list, c.order)
	return list
}

// Len returns the number of codes in the set
func (c *Currencies) Len() int {
	return len(c.codes)
}
