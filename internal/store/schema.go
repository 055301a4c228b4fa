package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

// Table definitions handed to ent's migrator. Column order matches the
// scan order used by the repos.

var (
	resultsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "user_id", Type: field.TypeString},
		{Name: "display_name", Type: field.TypeString, Default: ""},
		{Name: "module_id", Type: field.TypeString},
		{Name: "session_id", Type: field.TypeString},
		{Name: "mode", Type: field.TypeString},
		{Name: "score", Type: field.TypeInt},
		{Name: "total_questions", Type: field.TypeInt},
		{Name: "completed_at", Type: field.TypeTime},
		{Name: "is_partial", Type: field.TypeBool, Default: false},
	}
	resultsTable = &schema.Table{
		Name:       "results",
		Columns:    resultsColumns,
		PrimaryKey: []*schema.Column{resultsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "result_user_id", Columns: []*schema.Column{resultsColumns[2]}},
			{Name: "result_session_module", Unique: true, Columns: []*schema.Column{resultsColumns[5], resultsColumns[4]}},
		},
	}

	questionsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "module_id", Type: field.TypeString},
		{Name: "prompt", Type: field.TypeString, Size: 2147483647},
		{Name: "options", Type: field.TypeJSON},
		{Name: "correct_option_id", Type: field.TypeString},
		{Name: "explanation", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "difficulty", Type: field.TypeInt},
		{Name: "source", Type: field.TypeString, Default: "import"},
		{Name: "created_at", Type: field.TypeTime},
	}
	questionsTable = &schema.Table{
		Name:       "questions",
		Columns:    questionsColumns,
		PrimaryKey: []*schema.Column{questionsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "question_module_id", Columns: []*schema.Column{questionsColumns[1]}},
		},
	}

	assignmentsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeString, Unique: true},
		{Name: "title", Type: field.TypeString, Default: ""},
		{Name: "module_id", Type: field.TypeString, Default: ""},
		{Name: "question_ids", Type: field.TypeJSON},
		{Name: "due_date", Type: field.TypeTime, Nullable: true},
		{Name: "requires_tier", Type: field.TypeString, Default: ""},
		{Name: "created_at", Type: field.TypeTime},
	}
	assignmentsTable = &schema.Table{
		Name:       "assignments",
		Columns:    assignmentsColumns,
		PrimaryKey: []*schema.Column{assignmentsColumns[0]},
	}

	metaColumns = []*schema.Column{
		{Name: "name", Type: field.TypeString, Unique: true},
		{Name: "value", Type: field.TypeString},
	}
	metaTable = &schema.Table{
		Name:       "meta",
		Columns:    metaColumns,
		PrimaryKey: []*schema.Column{metaColumns[0]},
	}

	llmRequestsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeTime},
		{Name: "provider", Type: field.TypeString},
		{Name: "model", Type: field.TypeString},
		{Name: "purpose", Type: field.TypeString},
		{Name: "input_tokens", Type: field.TypeInt},
		{Name: "output_tokens", Type: field.TypeInt},
		{Name: "latency_ms", Type: field.TypeInt64},
		{Name: "success", Type: field.TypeBool},
		{Name: "error_message", Type: field.TypeString, Default: ""},
		{Name: "request_body", Type: field.TypeString, Size: 2147483647, Default: ""},
		{Name: "response_body", Type: field.TypeString, Size: 2147483647, Default: ""},
	}
	llmRequestsTable = &schema.Table{
		Name:       "llm_requests",
		Columns:    llmRequestsColumns,
		PrimaryKey: []*schema.Column{llmRequestsColumns[0]},
	}

	tables = []*schema.Table{
		resultsTable,
		questionsTable,
		assignmentsTable,
		metaTable,
		llmRequestsTable,
	}
)
