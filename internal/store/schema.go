package store

import (
	"reflect"
	"strings"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"

	entschema "github.com/abhisek/vitals/ent/schema"
)

// Table names, as annotated on the ent schemas.
const (
	tableResultEvents     = "result_events"
	tableLLMRequestEvents = "llm_request_events"
	tableSessionRecords   = "session_records"
)

// migrationTables builds the migrator's table definitions straight from the
// ent schema declarations, so the schema package stays the single source of
// truth for column names and types.
func migrationTables() []*schema.Table {
	return []*schema.Table{
		tableOf(entschema.ResultEvent{}),
		tableOf(entschema.LLMRequestEvent{}),
		tableOf(entschema.SessionRecord{}),
	}
}

func tableOf(s ent.Interface) *schema.Table {
	t := schema.NewTable(tableName(s))
	t.AddPrimary(&schema.Column{Name: "id", Type: field.TypeInt, Increment: true})

	var (
		fields  []ent.Field
		indexes []ent.Index
	)
	for _, m := range s.Mixin() {
		fields = append(fields, m.Fields()...)
		indexes = append(indexes, m.Indexes()...)
	}
	fields = append(fields, s.Fields()...)
	indexes = append(indexes, s.Indexes()...)

	for _, f := range fields {
		d := f.Descriptor()
		name := d.Name
		if d.StorageKey != "" {
			name = d.StorageKey
		}
		t.AddColumn(&schema.Column{
			Name:     name,
			Type:     d.Info.Type,
			Unique:   d.Unique,
			Nullable: d.Optional || d.Nillable,
			Default:  literalDefault(d.Default),
			Comment:  d.Comment,
		})
	}

	for _, idx := range indexes {
		d := idx.Descriptor()
		name := d.StorageKey
		if name == "" {
			name = t.Name + "_" + strings.Join(d.Fields, "_")
		}
		t.AddIndex(name, d.Unique, d.Fields)
	}
	return t
}

func tableName(s ent.Interface) string {
	for _, a := range s.Annotations() {
		switch ant := a.(type) {
		case entsql.Annotation:
			if ant.Table != "" {
				return ant.Table
			}
		case *entsql.Annotation:
			if ant != nil && ant.Table != "" {
				return ant.Table
			}
		}
	}
	return strings.ToLower(reflect.TypeOf(s).Name()) + "s"
}

// literalDefault keeps constant defaults and drops generator funcs such as
// time.Now, which the repos fill in explicitly.
func literalDefault(v any) any {
	switch v.(type) {
	case string, bool, int, int64, float64:
		return v
	default:
		return nil
	}
}
