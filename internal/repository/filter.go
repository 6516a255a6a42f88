package repository

import (
	"fmt"
	"strconv"
	"strings"

	"sales-order-booking/internal/model"
)

// filterColumns maps searchable fields to their columns. Column names are
// never taken from user input.
var filterColumns = map[model.OrderFilterField]string{
	model.FilterStoreName:    "store_name",
	model.FilterCustomerName: "customer_name",
	model.FilterLocation:     "location",
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// buildOrderFilter returns a WHERE clause (with leading space, or empty) and
// its arguments. The id field matches exactly; a non-numeric id matches
// nothing. Other fields match a case-insensitive substring.
func buildOrderFilter(f model.OrderFilter) (string, []any, error) {
	value := strings.TrimSpace(f.Value)
	if value == "" || f.Field == "" {
		return "", nil, nil
	}

	if f.Field == model.FilterID {
		id, err := strconv.ParseInt(value, 10, 64)
		if err != nil {
			return " WHERE FALSE", nil, nil
		}
		return " WHERE id = $1", []any{id}, nil
	}

	column, ok := filterColumns[f.Field]
	if !ok {
		return "", nil, fmt.Errorf("unsupported filter field %q", f.Field)
	}
	return fmt.Sprintf(` WHERE %s ILIKE $1 ESCAPE '\'`, column), []any{"%" + likeEscaper.Replace(value) + "%"}, nil
}
