package assistant

import "strings"

// Table describes one queryable table and the exact columns the
// synthesizer may reference.
type Table struct {
	Name    string
	Columns []string
}

// SchemaDescription is the ordered, immutable catalog of tables exposed
// to the query synthesizer. Nothing outside this list may appear in a
// generated query.
type SchemaDescription struct {
	Tables []Table
}

// DefaultSchema mirrors the marketplace tables managed by the
// migrations package. Keep the two in sync when the schema evolves.
func DefaultSchema() SchemaDescription {
	return SchemaDescription{Tables: []Table{
		{Name: "users", Columns: []string{"id", "uid", "email", "full_name", "phone_number", "location", "is_active", "is_business", "created_at"}},
		{Name: "businesses", Columns: []string{"id", "owner_id", "name", "description", "category", "business_type", "location", "address", "phone", "email", "website", "is_active", "allows_delivery", "created_at", "updated_at"}},
		{Name: "services", Columns: []string{"id", "business_id", "name", "description", "duration", "price", "is_active"}},
		{Name: "products", Columns: []string{"id", "business_id", "name", "description", "price", "stock", "is_active", "created_at", "updated_at"}},
		{Name: "bookings", Columns: []string{"id", "service_id", "user_id", "start_time", "end_time", "status", "created_at"}},
		{Name: "marketplace_items", Columns: []string{"id", "seller_id", "title", "description", "price", "condition", "is_sold", "created_at", "updated_at"}},
	}}
}

// PromptText renders the schema as one line per table, the form the
// synthesis prompt embeds verbatim.
func (s SchemaDescription) PromptText() string {
	var b strings.Builder
	for _, table := range s.Tables {
		b.WriteString("- ")
		b.WriteString(table.Name)
		b.WriteString(": ")
		b.WriteString(strings.Join(table.Columns, ", "))
		b.WriteString("\n")
	}
	return b.String()
}
