package response

import (
	"github.com/jinzhu/copier"
	"github.com/shopspring/decimal"
)

// Money amounts leave the API with exactly two decimals.
func money(d decimal.Decimal) string {
	return d.StringFixed(2)
}

var copyOptions = copier.Option{
	DeepCopy: true,
	Converters: []copier.TypeConverter{
		{
			SrcType: decimal.Decimal{},
			DstType: copier.String,
			Fn: func(src any) (any, error) {
				return money(src.(decimal.Decimal)), nil
			},
		},
	},
}

// fromView copies a read model into its response shape by field name.
func fromView[T any](view any) (*T, error) {
	var out T
	if err := copier.CopyWithOption(&out, view, copyOptions); err != nil {
		return nil, err
	}
	return &out, nil
}
