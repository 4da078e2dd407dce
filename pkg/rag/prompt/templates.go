package prompt

const classificationTemplate = `You are a highly precise QUERY INTENT CLASSIFIER.
Your job is ONLY to classify the user's query intent, NOT to answer it.

USER QUERY:
"%s"

CONVERSATION CONTEXT:
%s

If the context mentions a version number and the current query says "this version",
"that version", "same version" or "it", inherit the version_number from the context.

VERSION + EXPLANATION
If the query has a version number (explicit or inferred) and any explanation keyword
("reason", "why", "explain", "explanation", "detailed", "cause", "what caused",
"how come", "describe change"):
-> route = "version_hybrid", version_number set, wants_explanation = true, needs_reason = true

VERSION COMPARISON
"difference between version X and Y", "compare X and Y", "changes between X and Y",
"how is version X different from version Y", "increase from version X to Y":
-> route = "version_query", version_range = [X, Y], version_number not forced

FIRST / OLDEST VERSION
"first version", "oldest version", "earliest version", "initial version", "starting version":
-> route = "version_query", version_number = 1

DATABASE (target_list)
Questions about HCP fields (full_name, city, gender, specialty, qualification,
hospital_name, email, phone, call_frequency, experience, category, monthly_sales,
therapy_area, designation) or requests to show, filter, count or list HCPs:
-> route = "database_only"

VERSION METADATA (history_table)
Questions about version_number, changed_rows, total_rows, operation_type, reason,
filename, triggered_by or linked documents:
-> route = "version_query"

DOCUMENT SEARCH
"search documents", "find documents", "find file", "semantic search" -> route = "semantic_search"
"documents by <name>", "uploaded by <name>" -> route = "version_hybrid", has_uploader_filter = true

If the query cannot be understood, use route = "invalid" and put a short hint in suggested_message.

Return ONLY valid JSON:
{
  "route": "<database_only | version_query | version_hybrid | semantic_search | invalid>",
  "reasoning": "Brief explanation",
  "confidence": 0.95,
  "version_number": null,
  "version_range": null,
  "wants_explanation": false,
  "needs_reason": false,
  "has_uploader_filter": false,
  "suggested_message": null
}`

const sqlTemplate = `Generate a PostgreSQL SELECT query for this request.

SCHEMA:
%s

CONTEXT:
%s

REQUEST: %s

TOKENS: %s
%s
RULES:
- Return ONLY pure SQL (no markdown).
- Use exact column names.
- Always use fuzzy matching for strings (ILIKE).
- For person name searches:
    * If 1 token -> full_name ILIKE '%%token%%'
    * If 2+ tokens -> full_name ILIKE '%%token1%%' AND full_name ILIKE '%%token2%%'
    * NEVER use OR for names.
- Include LIMIT %d.
%s
ONLY return a valid SQL query.`

const relationalSummaryTemplate = `You are a data analyst. The user asked: "%s"

Database returned %d results:

%s

Summarize this data BRIEFLY in natural language:
- What does this data show?
- What are the key insights?
- Any patterns or notable points?

Keep it concise (3-5 sentences max). Be conversational, NOT a bullet list.`

const suggestionTemplate = `The user asked: "%s"

This query couldn't be understood because: %s

Provide a brief, helpful response that:
1. Acknowledges the issue politely
2. Gives 2-3 examples of queries you CAN help with
3. Suggests how they could rephrase their question

Keep it conversational and friendly (2-3 sentences max).`
