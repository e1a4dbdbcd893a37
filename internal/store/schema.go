package store

import (
	"entgo.io/ent/dialect/sql/schema"
	"entgo.io/ent/schema/field"
)

var (
	// ProgressColumns holds the latest progress document per character.
	ProgressColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "character_id", Type: field.TypeString, Unique: true},
		{Name: "format_version", Type: field.TypeString},
		{Name: "save_id", Type: field.TypeString},
		{Name: "document", Type: field.TypeJSON},
		{Name: "saved_at", Type: field.TypeInt64},
		{Name: "updated_at", Type: field.TypeInt64},
	}
	ProgressTable = &schema.Table{
		Name:       "progress",
		Columns:    ProgressColumns,
		PrimaryKey: []*schema.Column{ProgressColumns[0]},
	}

	// ProgressHistoryColumns keeps every accepted save, newest last.
	ProgressHistoryColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "character_id", Type: field.TypeString},
		{Name: "save_id", Type: field.TypeString},
		{Name: "document", Type: field.TypeJSON},
		{Name: "saved_at", Type: field.TypeInt64},
	}
	ProgressHistoryTable = &schema.Table{
		Name:       "progress_history",
		Columns:    ProgressHistoryColumns,
		PrimaryKey: []*schema.Column{ProgressHistoryColumns[0]},
		Indexes: []*schema.Index{
			{Name: "progresshistory_character_id", Columns: []*schema.Column{ProgressHistoryColumns[1]}},
		},
	}

	// EngineEventsColumns is the append-only journal of engine notifications.
	EngineEventsColumns = []*schema.Column{
		{Name: "id", Type: field.TypeInt, Increment: true},
		{Name: "sequence", Type: field.TypeInt64, Unique: true},
		{Name: "timestamp", Type: field.TypeInt64},
		{Name: "character_id", Type: field.TypeString},
		{Name: "type", Type: field.TypeString},
		{Name: "node_id", Type: field.TypeString, Nullable: true},
		{Name: "payload", Type: field.TypeJSON},
	}
	EngineEventsTable = &schema.Table{
		Name:       "engine_events",
		Columns:    EngineEventsColumns,
		PrimaryKey: []*schema.Column{EngineEventsColumns[0]},
		Indexes: []*schema.Index{
			{Name: "engineevent_timestamp", Columns: []*schema.Column{EngineEventsColumns[2]}},
			{Name: "engineevent_character_id_type", Columns: []*schema.Column{EngineEventsColumns[3], EngineEventsColumns[4]}},
		},
	}

	// Tables lists every table Open migrates.
	Tables = []*schema.Table{
		ProgressTable,
		ProgressHistoryTable,
		EngineEventsTable,
	}
)
