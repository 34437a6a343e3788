// Package todo owns the task collection: creation, update, deletion,
// filtering, and the persisted form of the collection.
//
// The collection is stored in a single durable key-value slot as a
// versioned JSON envelope:
//
//	{
//	  "schema_version": 1,
//	  "tasks": [
//	    {
//	      "id": "cq6v2kq0n8s1e7p3gkd0",
//	      "title": "Buy milk",
//	      "description": "",
//	      "status": "pending",
//	      "tags": ["errand"],
//	      "priority": "low",
//	      "createdAt": "2024-01-01T09:30:00.123456789Z",
//	      "completedAt": null
//	    }
//	  ]
//	}
//
// A bare JSON array of task records (the pre-envelope layout) is still
// accepted on load and upgraded in memory; it is written back as an
// envelope on the next save.
//
// # Validation
//
// Payloads are checked against an embedded JSON Schema (draft 2020-12)
// before they are decoded. Tasks passed to Create and Update are checked
// for a non-empty title and known status and priority values. Both report
// *ValidationError with a dotted path to the offending field.
//
// # Task Status Values
//
//   - "pending": Task is open
//   - "completed": Task is done; completedAt records when it first became done
//
// # Priority Values
//
//   - "low", "medium", "high"
//
// # Filtering
//
// Criteria carries an optional status, tag, and search text. Status and tag
// are applied first. When search text is present, the title/description
// match alone decides whether a task is included, regardless of the status
// and tag outcome.
package todo
