package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
)

type Summary struct{ ent.Schema }

func (Summary) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "summaries"},
	}
}

func (Summary) Fields() []ent.Field {
	return []ent.Field{
		field.String("case_id").NotEmpty().Unique().Immutable(),
		field.String("overview").
			SchemaType(map[string]string{dialect.Postgres: "text"}),
		field.JSON("key_points", json.RawMessage{}).Optional(),
		field.JSON("entities", json.RawMessage{}).Optional(),
		field.JSON("timeline", json.RawMessage{}).Optional(),
		field.JSON("legal_references", json.RawMessage{}).Optional(),
		field.Float("confidence"),
		field.Float("processing_time"),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}
