// Package pgrequests is a builder-pattern SQL query compiler.
//
// It turns chainable, high-level declarations (table, fields, filter
// predicates, joins, ordering, pagination, function calls) into a single SQL
// statement paired with an ordered list of bind parameters, ready for a
// parameterized-query driver. The package generates SQL; it never executes
// it, manages connections, or maps results.
//
// The statement builders live in the dialect/sql sub-package:
//
//	import (
//	    "github.com/prawn-cake/pg-requests/dialect"
//	    "github.com/prawn-cake/pg-requests/dialect/sql"
//	)
//
//	q, err := sql.Select("users").
//	    Fields("id", "name").
//	    Filter("created_at__gt", since).
//	    OrderBy("created_at").Desc().
//	    Limit(10).Offset(20).
//	    Query()
//	// q.SQL:  SELECT id, name FROM users WHERE ( created_at > $1 )
//	//         ORDER BY created_at DESC LIMIT 10 OFFSET 20
//	// q.Args: [since]
//
// Filter keys use a compact lookup syntax: an optional table qualifier, a
// field name and an optional comparison operator suffix, joined by double
// underscores. "users__name" compares users.name for equality,
// "visits__gte" compares visits with >=, and a key with no recognized
// suffix is a plain equality on the whole field name.
//
// Every literal value reaches the output only as a bind parameter. The Nth
// placeholder in the SQL text always corresponds to the Nth argument; this
// ordering invariant is the package's core guarantee.
//
// This package holds the error types shared by the builders and a cache
// contract for distributing compiled statements. Dialect constants and the
// executor contract are in the dialect sub-package.
package pgrequests
