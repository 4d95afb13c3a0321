package schema

import (
	"time"

	"entgo.io/ent"
	"entgo.io/ent/dialect/entsql"
	"entgo.io/ent/schema"
	"entgo.io/ent/schema/edge"
	"entgo.io/ent/schema/field"
	"entgo.io/ent/schema/index"

	"github.com/nishant-rao/legal-summarizer/constants"
	"github.com/nishant-rao/legal-summarizer/db/ent/schema/utils"
)

type Case struct{ ent.Schema }

func (Case) Annotations() []schema.Annotation {
	return []schema.Annotation{
		entsql.Annotation{Table: "cases"},
	}
}

func (Case) Fields() []ent.Field {
	return []ent.Field{
		field.String("case_id").NotEmpty().Unique().Immutable(),
		field.String("filename").NotEmpty(),
		field.String("media_type").NotEmpty().
			Validate(utils.EnumValidator(
				string(constants.MediaText),
				string(constants.MediaImage),
				string(constants.MediaAudio),
			)),
		field.String("source_path").NotEmpty(),
		field.String("status").
			Validate(utils.EnumValidator(constants.StatusStrings()...)),
		field.String("error_message").Optional().Nillable(),
		field.Time("created_at").Default(time.Now).Immutable(),
		field.Time("completed_at").Optional().Nillable(),
	}
}

func (Case) Edges() []ent.Edge {
	return []ent.Edge{
		edge.To("summary", Summary.Type).Unique(),
		edge.To("feedback", Feedback.Type),
	}
}

func (Case) Indexes() []ent.Index {
	return []ent.Index{
		index.Fields("status", "created_at"),
	}
}
