package repository

// ListOptions is the generic query shape shared by list operations:
// equality filters, ordering, and limit/offset pagination.
// An empty OrderBy falls back to the store's deterministic default so
// paginated slices stay contiguous and non-overlapping.
type ListOptions struct {
	Filters map[string]interface{}
	OrderBy string
	Limit   int
	Offset  int
}

// WithFilter returns a copy of the options with one more equality filter.
func (o ListOptions) WithFilter(column string, value interface{}) ListOptions {
	filters := make(map[string]interface{}, len(o.Filters)+1)
	for k, v := range o.Filters {
		filters[k] = v
	}
	filters[column] = value
	o.Filters = filters
	return o
}
