// Package rules provides the declarative rule schema, YAML parsing,
// validation and per-type lookup for enrichment rules.
//
// # Schema Overview
//
// A rule file has the following structure:
//
//	version: "1"
//	types:
//	  - type: store.Order
//	    assemble:
//	      # fill CustomerName from the "customers" container keyed by CustomerID
//	      - field: CustomerID
//	        container: customers
//	        props: ["name:CustomerName", "email:CustomerEmail"]
//	      # enum dictionary lookup in a namespaced container
//	      - field: Status
//	        container: enums
//	        namespace: order_status
//	        props:
//	          - src: label
//	            ref: StatusLabel
//	        groups: [detail]
//	        priority: 10
//	      # expression override evaluated after the lookup
//	      - field: CustomerID
//	        container: customers
//	        props:
//	          - ref: Greeting
//	            exp: '"Dear " + source.name'
//	            exp_type: string
//	        priority: 20
//	    disassemble:
//	      # enrich nested items with the rules declared for store.OrderItem
//	      - field: Items
//	        type: store.OrderItem
//	      # infer the nested type from the runtime value
//	      - field: Attachments
//
// # Property Shorthand
//
// Props accept objects or shorthand strings:
//   - "a:b" reads a from the fetched value and writes it into b
//   - "a" reads and writes a
//   - ":b" writes the whole fetched value into b
//   - "a:" writes a into the rule's own field
//   - ":" writes the whole fetched value into the rule's own field
//
// # Priority and Groups
//
// Operations run in ascending priority; ties keep declaration order.
// Rules without groups belong to DefaultGroup.
package rules
