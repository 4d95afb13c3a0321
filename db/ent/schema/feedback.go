package schema

import (
	"encoding/json"
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

type Feedback struct{ ent.Schema }

func (Feedback) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "feedback"},
	}
}

func (Feedback) Fields() []ent.Field {
	return []ent.Field{
		field.String("case_id").NotEmpty(),
		field.Int("rating").Min(1).Max(5),
		field.String("comments").Optional().Nillable(),
		field.JSON("corrections", json.RawMessage{}).Optional(),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

func (Feedback) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("case_id"),
	}
}
