package schema

import (
	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	entschema "entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

// CategoryScore is the persisted form of one breakdown row.
type CategoryScore struct {
	Category  string `json:"category"`
	Label     string `json:"label"`
	Score     int    `json:"score"`
	Max       int    `json:"max"`
	Answered  int    `json:"answered"`
	Questions int    `json:"questions"`
}

// ResultEvent records the evaluation of a completed assessment.
type ResultEvent struct {
	ent.Schema
}

func (ResultEvent) Annotations() []entschema.Annotation {
	return []entschema.Annotation{
		entsql.Annotation{Table: "result_events"},
	}
}

func (ResultEvent) Mixin() []ent.Mixin {
	return []ent.Mixin{EventMixin{}}
}

func (ResultEvent) Fields() []ent.Field {
	return []ent.Field{
		field.String("session_id").
			NotEmpty(),
		field.String("catalog_version"),
		field.Int("total"),
		field.Int("max_score"),
		field.Float("percentage"),
		field.String("tier").
			Comment("Tier label, e.g. Excellent"),
		field.JSON("answers", map[string]string{}).
			Comment("Question ID to selected option value"),
		field.JSON("recommendations", []string{}),
		field.JSON("categories", []CategoryScore{}),
	}
}

func (ResultEvent) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("session_id"),
		index.Fields("tier"),
	}
}
