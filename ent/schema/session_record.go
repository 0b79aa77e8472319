package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// SessionRecord holds the latest durable state of one assessment. Unlike
// the event tables it is overwritten in place on every transition.
type SessionRecord struct {
	ent.Schema
}

func (SessionRecord) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "session_records"},
	}
}

func (SessionRecord) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			Unique().
			NotEmpty(),
		field.String("catalog_version"),
		field.JSON("answers", map[string]string{}),
		field.Int("cursor").
			Default(0),
		field.Bool("complete").
			Default(false),
		field.Bool("reported").
			Default(false).
			Comment("result event appended for the current pass"),
		field.Time("created_at").
			Default(time.Now).
			Immutable(),
		field.Time("updated_at").
			Default(time.Now).
			UpdateDefault(time.Now),
	}
}

func (SessionRecord) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("complete", "updated_at"),
	}
}
