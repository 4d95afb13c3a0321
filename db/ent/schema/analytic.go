package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"
)

type Analytic struct{ ent.Schema }

func (Analytic) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "analytics"},
	}
}

func (Analytic) Fields() []ent.Field {
	return []ent.Field{
		field.String("metric_name").NotEmpty(),
		field.Float("metric_value"),
		field.String("case_id").Optional().Nillable(),
		field.Time("created_at").Default(time.Now).Immutable(),
	}
}

func (Analytic) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("metric_name", "created_at"),
	}
}
