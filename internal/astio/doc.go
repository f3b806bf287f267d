// Package astio decodes AST documents into the arena AST.
//
// An AST document is YAML (JSON is accepted as a subset) describing one
// library:
//
//	library: printer
//	declarations:
//	  - var: limit
//	    modifier: const
//	    value: 10
//	  - class: Printer
//	    members:
//	      - field: instanceMember
//	        value: "text"
//	      - method: printer
//	        params:
//	          - name: f
//	            default: {fn: [], const: true, expr: instanceMember}
//	        body: []
//
// Plain scalars in expression position are identifiers (`this` and `super`
// are keywords), quoted scalars are string literals and typed scalars are
// numeric, boolean or null literals. Composite expressions are mappings keyed
// by their kind: ident, string, binary, unary, cond, is, call, member, index,
// fn, list and assign. Statements are mappings keyed by var, function, expr,
// return, if, while, for and block.
//
// Source locations of all nodes are the positions of the YAML nodes in the
// document, so diagnostics point into the document itself.
package astio
