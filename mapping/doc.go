// Package mapping defines the model shared by configurations and the mapper
// builder: member paths, mapping operations, the Configurator contract and the
// field descriptors used by attribute driven configurations.
//
// # Operations
//
// A Configurator turns a (source, destination) type pair into an ordered list of
// operations:
//
//   - ReadWrite copies a source member path into a destination member path,
//     coercing or deep mapping the value.
//   - DestWrite computes a destination value from the whole source instance.
//   - SrcRead hands a source value to a custom setter, typically writing into a
//     key/value container.
//
// RootOperation carries the settings that apply to a whole value of the pair:
// converter, null substitution, construction and post-processing.
//
// # Paths
//
// Member paths are dotted chains such as "Customer.Address.City". Reading
// through a nil pointer yields no value; writing through one allocates it.
//
// # Descriptors
//
// Field descriptors bind a member to one or more logical field names. They are
// read from struct tags:
//
//	Number int `field:"order_number;order_number_2,type=string"`
//
// or from a YAML file:
//
//	version: "1"
//	types:
//	  - type: Entity
//	    table: orders
//	    fields:
//	      Id: order_id
//	      Number: [order_number, {name: order_number_2, type: string}]
//	    ignore: [Internal]
//
// Entries in a file are bound to Go types registered on a Registry by name.
package mapping
