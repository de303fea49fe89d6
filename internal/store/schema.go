package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// LibrariesColumns holds the columns for the "libraries" table.
	LibrariesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt, Default: 0},
	}
	// LibrariesTable holds the schema information for the "libraries" table.
	LibrariesTable = &schema.Table{
		Name:       "libraries",
		Columns:    LibrariesColumns,
		PrimaryKey: []*schema.Column{LibrariesColumns[0]},
	}

	// CollectionsColumns holds the columns for the "collections" table.
	CollectionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "library_id", Type: field.TypeString},
		{Name: "name", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt, Default: 0},
	}
	// CollectionsTable holds the schema information for the "collections" table.
	CollectionsTable = &schema.Table{
		Name:       "collections",
		Columns:    CollectionsColumns,
		PrimaryKey: []*schema.Column{CollectionsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "collections_libraries_collections",
				Columns:    []*schema.Column{CollectionsColumns[1]},
				RefColumns: []*schema.Column{LibrariesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// ArticlesColumns holds the columns for the "articles" table.
	ArticlesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "collection_id", Type: field.TypeString},
		{Name: "title", Type: field.TypeString},
		{Name: "position", Type: field.TypeInt, Default: 0},
	}
	// ArticlesTable holds the schema information for the "articles" table.
	ArticlesTable = &schema.Table{
		Name:       "articles",
		Columns:    ArticlesColumns,
		PrimaryKey: []*schema.Column{ArticlesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "articles_collections_articles",
				Columns:    []*schema.Column{ArticlesColumns[1]},
				RefColumns: []*schema.Column{CollectionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// SentencesColumns holds the columns for the "sentences" table.
	SentencesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "article_id", Type: field.TypeString},
		{Name: "idx", Type: field.TypeInt},
		{Name: "text", Type: field.TypeString, Size: 2147483647},
	}
	// SentencesTable holds the schema information for the "sentences" table.
	SentencesTable = &schema.Table{
		Name:       "sentences",
		Columns:    SentencesColumns,
		PrimaryKey: []*schema.Column{SentencesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "sentences_articles_sentences",
				Columns:    []*schema.Column{SentencesColumns[1]},
				RefColumns: []*schema.Column{ArticlesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "sentence_article_id_idx", Unique: true, Columns: []*schema.Column{SentencesColumns[1], SentencesColumns[2]}},
		},
	}

	// DefinitionsColumns holds the columns for the "definitions" table.
	DefinitionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "character", Type: field.TypeString},
		{Name: "content", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
		{Name: "updated_at", Type: field.TypeTime},
	}
	// DefinitionsTable holds the schema information for the "definitions" table.
	DefinitionsTable = &schema.Table{
		Name:       "definitions",
		Columns:    DefinitionsColumns,
		PrimaryKey: []*schema.Column{DefinitionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "definition_character_content", Unique: true, Columns: []*schema.Column{DefinitionsColumns[1], DefinitionsColumns[2]}},
		},
	}

	// LinksColumns holds the columns for the "definition_links" table.
	LinksColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "definition_id", Type: field.TypeString},
		{Name: "sentence_id", Type: field.TypeString},
		{Name: "character_position", Type: field.TypeInt, Default: 0},
	}
	// LinksTable holds the schema information for the "definition_links" table.
	LinksTable = &schema.Table{
		Name:       "definition_links",
		Columns:    LinksColumns,
		PrimaryKey: []*schema.Column{LinksColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "definition_links_definitions_links",
				Columns:    []*schema.Column{LinksColumns[1]},
				RefColumns: []*schema.Column{DefinitionsColumns[0]},
				OnDelete:   schema.Cascade,
			},
			{
				Symbol:     "definition_links_sentences_links",
				Columns:    []*schema.Column{LinksColumns[2]},
				RefColumns: []*schema.Column{SentencesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "link_definition_sentence", Unique: true, Columns: []*schema.Column{LinksColumns[1], LinksColumns[2]}},
		},
	}

	// ShortSentencesColumns holds the columns for the "short_sentences" table.
	ShortSentencesColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString},
		{Name: "text", Type: field.TypeString},
		{Name: "source_article_id", Type: field.TypeString},
		{Name: "source_sentence_id", Type: field.TypeString},
		{Name: "created_at", Type: field.TypeTime},
	}
	// ShortSentencesTable holds the schema information for the "short_sentences" table.
	ShortSentencesTable = &schema.Table{
		Name:       "short_sentences",
		Columns:    ShortSentencesColumns,
		PrimaryKey: []*schema.Column{ShortSentencesColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "short_sentences_sentences_fragments",
				Columns:    []*schema.Column{ShortSentencesColumns[3]},
				RefColumns: []*schema.Column{SentencesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
		Indexes: []*schema.Index{
			{Name: "short_sentence_text", Unique: true, Columns: []*schema.Column{ShortSentencesColumns[1]}},
		},
	}

	// CharacterWeightsColumns holds the columns for the "character_weights" table.
	// The other-characters weight is derived and never stored.
	CharacterWeightsColumns = []*schema.Column{
		{Name: "character", Type: field.TypeString},
		{Name: "weight", Type: field.TypeInt},
		{Name: "position", Type: field.TypeInt, Default: 0},
	}
	// CharacterWeightsTable holds the schema information for the "character_weights" table.
	CharacterWeightsTable = &schema.Table{
		Name:       "character_weights",
		Columns:    CharacterWeightsColumns,
		PrimaryKey: []*schema.Column{CharacterWeightsColumns[0]},
	}

	// ArticleWeightsColumns holds the columns for the "article_weights" table.
	ArticleWeightsColumns = []*schema.Column{
		{Name: "article_id", Type: field.TypeString},
		{Name: "weight", Type: field.TypeInt},
		{Name: "included", Type: field.TypeBool, Default: true},
	}
	// ArticleWeightsTable holds the schema information for the "article_weights" table.
	ArticleWeightsTable = &schema.Table{
		Name:       "article_weights",
		Columns:    ArticleWeightsColumns,
		PrimaryKey: []*schema.Column{ArticleWeightsColumns[0]},
		ForeignKeys: []*schema.ForeignKey{
			{
				Symbol:     "article_weights_articles_weight",
				Columns:    []*schema.Column{ArticleWeightsColumns[0]},
				RefColumns: []*schema.Column{ArticlesColumns[0]},
				OnDelete:   schema.Cascade,
			},
		},
	}

	// LLMRequestEventsColumns holds the columns for the "llm_request_events" table.
	LLMRequestEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt, Default: 0},
		{Name: "output_tokens", Type: field.TypeInt, Default: 0},
		{Name: "latency_ms", Type: field.TypeInt64, Default: 0},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	// LLMRequestEventsTable holds the schema information for the "llm_request_events" table.
	LLMRequestEventsTable = &schema.Table{
		Name:       "llm_request_events",
		Columns:    LLMRequestEventsColumns,
		PrimaryKey: []*schema.Column{LLMRequestEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "llmrequestevent_timestamp", Columns: []*schema.Column{LLMRequestEventsColumns[2]}},
			{Name: "llmrequestevent_purpose", Columns: []*schema.Column{LLMRequestEventsColumns[5]}},
		},
	}

	// CountersColumns holds the columns for the "counters" table.
	CountersColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString},
		{Name: "value", Type: field.TypeInt64, Default: 0},
	}
	// CountersTable holds the schema information for the "counters" table.
	CountersTable = &schema.Table{
		Name:       "counters",
		Columns:    CountersColumns,
		PrimaryKey: []*schema.Column{CountersColumns[0]},
	}

	// Tables holds all the tables in the schema, parents before children.
	Tables = []*schema.Table{
		LibrariesTable,
		CollectionsTable,
		ArticlesTable,
		SentencesTable,
		DefinitionsTable,
		LinksTable,
		ShortSentencesTable,
		CharacterWeightsTable,
		ArticleWeightsTable,
		LLMRequestEventsTable,
		CountersTable,
	}
)

func init() {
	CollectionsTable.ForeignKeys[0].RefTable = LibrariesTable
	ArticlesTable.ForeignKeys[0].RefTable = CollectionsTable
	SentencesTable.ForeignKeys[0].RefTable = ArticlesTable
	LinksTable.ForeignKeys[0].RefTable = DefinitionsTable
	LinksTable.ForeignKeys[1].RefTable = SentencesTable
	ShortSentencesTable.ForeignKeys[0].RefTable = SentencesTable
	ArticleWeightsTable.ForeignKeys[0].RefTable = ArticlesTable
}
