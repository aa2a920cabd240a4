package tagspec

import "github.com/ironsheep/inventory-tag-scanner/internal/tag"

// Default returns the physical-inventory tag layout.
func Default() Set {
	return Set{
		Layout: "physical-inventory",
		Fields: []FieldSpec{
			{
				Name:   tag.Book,
				Labels: []string{"TAG BOOK NO", "BOOK NO", "BOOK NUMBER", "BK NO", "BOOK"},
				Shape:  Shape{Kind: Digits, MinLen: 4, MaxLen: 4},
			},
			{
				Name:   tag.Tag,
				Labels: []string{"TAG SR NO", "TAG SERIAL NO", "TAG SERIAL", "TAG NO", "SERIAL NO", "SR NO", "TAG"},
				Shape:  Shape{Kind: Digits, MinLen: 5, MaxLen: 5},
			},
			{
				Name:   tag.Material,
				Labels: []string{"MATERIAL NO", "MATERIAL CODE", "PART NO", "PART NUMBER", "MAT NO", "MATERIAL", "PART"},
				Shape:  Shape{Kind: Alnum, MinLen: 10, MaxLen: 15},
			},
			{
				Name:       tag.Quantity,
				Labels:     []string{"QUANTITY", "QTY", "QNTY", "OTY"},
				Shape:      Shape{Kind: Digits, MinLen: 1, MaxLen: 4},
				Standalone: true, // only reached when a layout raises MinLen
			},
			{
				Name:      tag.Location,
				Labels:    []string{"STORAGE LOCATION", "LOCATION", "LOC"},
				Shape:     Shape{Kind: Code, MinLen: 2, MaxLen: 20},
				LabelOnly: true,
				Corrections: map[string]string{
					"WIP": "WIP",
					"WTP": "WIP",
					"W1P": "WIP",
					"WlP": "WIP",
					"UBC": "UBC",
					"UB<": "UBC",
					"U8C": "UBC",
					"UBG": "UBC",
				},
				KnownValues: []KnownValue{
					{Value: "WIP-UBC", Parts: []string{"WIP", "UBC"}},
				},
				MaxEdits: 1,
			},
		},
	}
}

// MustDefault compiles the default layout. It panics only if the built-in
// layout itself is broken.
func MustDefault() *Compiled {
	c, err := Compile(Default())
	if err != nil {
		panic(err)
	}
	return c
}
