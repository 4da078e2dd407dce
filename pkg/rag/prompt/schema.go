package prompt

// SchemaContext describes the managed data to the SQL generator. Only the two
// tables the chatbot may query are listed.
const SchemaContext = `SYSTEM OVERVIEW
This database powers a Healthcare Professional (HCP) management and version
tracking platform. It holds the HCP master list and an audit log of every
change applied to it.

TABLE: target_list
Stores healthcare professionals with specialty, hospital, influence, sales
and interaction data.
Columns:
- id                       SERIAL PRIMARY KEY
- hcp_code                 TEXT UNIQUE
- full_name                TEXT NOT NULL
- gender                   TEXT (male/female/other)
- qualification            TEXT
- specialty                TEXT
- designation              TEXT
- email                    TEXT
- phone                    TEXT
- hospital_name            TEXT
- hospital_address         TEXT
- city                     TEXT
- state                    TEXT
- pincode                  TEXT
- experience_years         INTEGER
- influence_score          NUMERIC(5,2)
- category                 TEXT
- therapy_area             TEXT
- monthly_sales            INTEGER
- yearly_sales             INTEGER
- last_interaction_date    DATE
- call_frequency           INTEGER
- priority                 BOOLEAN DEFAULT FALSE

TABLE: history_table
Version log for INSERT, UPDATE and DELETE operations, mostly on target_list.
Columns:
- version_id        BIGSERIAL PRIMARY KEY
- version_number    INTEGER NOT NULL
- operation_type    TEXT ('INSERT','UPDATE','DELETE')
- table_name        TEXT NOT NULL
- total_rows        INTEGER
- changed_rows      INTEGER
- reason            TEXT
- triggered_by      TEXT DEFAULT 'Administrator'
- timestamp         TIMESTAMP DEFAULT NOW()
- doc_id            TEXT
- filename          TEXT
- file_type         TEXT
- num_chunks        INTEGER

RULES
- Produce PostgreSQL SELECT statements only.
- Never modify data.
- Never invent columns.`
