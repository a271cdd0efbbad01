// Package graph defines the design graph produced by evaluating a brush
// script. The graph is a DAG of shapes, rooms, translations and groups; each
// evaluation builds a new graph and nothing mutates it afterwards.
package graph
