package compiler

import (
	"strings"

	"github.com/canforge/canforge/internal/builder"
	"github.com/canforge/canforge/internal/ir"
)

// dfs colors for cycle detection.
type visitColor int

const (
	colorWhite visitColor = iota // unvisited
	colorGray                    // on the current path
	colorBlack                   // done
)

// orderTypeDecls topologically sorts declared type definitions so every
// referenced type precedes its dependents. A struct attribute whose
// descriptor is not an in-place primitive/decimal/array-of-those must name
// a declared type (after stripping array suffixes), otherwise the ordering
// fails with UndefinedType. Cyclic declarations fail with CyclicType.
func orderTypeDecls(decls []builder.TypeDecl) ([]builder.TypeDecl, error) {
	n := len(decls)
	indexByName := make(map[string]int, n)
	for i, decl := range decls {
		indexByName[decl.DeclName()] = i
	}

	adj := make([][]int, n)
	for i, decl := range decls {
		s, ok := decl.(*builder.Struct)
		if !ok {
			continue // enums have no dependencies
		}
		for _, attr := range s.Attributes {
			if _, err := resolveType(nil, attr.Type); err == nil {
				continue // in-place definition
			} else if CodeOf(err) == ErrInvalidRange {
				return nil, err
			}
			dep, ok := indexByName[baseTypeName(attr.Type)]
			if !ok {
				return nil, compileErrorf(ErrUndefinedType, s.Name,
					"attribute %q references undefined type %q", attr.Name, attr.Type)
			}
			adj[i] = append(adj[i], dep)
		}
	}

	order, cycle := topoSort(n, adj)
	if cycle != nil {
		names := make([]string, 0, len(cycle))
		for _, idx := range cycle {
			names = append(names, decls[idx].DeclName())
		}
		return nil, compileErrorf(ErrCyclicType, names[0],
			"cyclic type declaration: %s", strings.Join(names, " -> "))
	}

	ordered := make([]builder.TypeDecl, 0, n)
	for _, idx := range order {
		ordered = append(ordered, decls[idx])
	}
	return ordered, nil
}

// orderTypes topologically sorts a subset of elaborated types (a node's
// transitively referenced types). Elaborated types are acyclic by
// construction, so no cycle can occur here.
func orderTypes(types []ir.Type) []ir.Type {
	n := len(types)
	indexByType := make(map[ir.Type]int, n)
	for i, ty := range types {
		indexByType[ty] = i
	}

	adj := make([][]int, n)
	addDep := func(i int, ty ir.Type) {
		if dep, ok := indexByType[ty]; ok {
			adj[i] = append(adj[i], dep)
		}
	}
	for i, ty := range types {
		switch t := ty.(type) {
		case *ir.StructType:
			for _, attr := range t.Attributes {
				dep := attr.Type
				for {
					arr, ok := dep.(*ir.ArrayType)
					if !ok {
						break
					}
					dep = arr.Elem
				}
				addDep(i, dep)
			}
		case *ir.ArrayType:
			addDep(i, t.Elem)
		}
	}

	order, cycle := topoSort(n, adj)
	if cycle != nil {
		integrityFault(types[cycle[0]].TypeName(), "cycle among elaborated types")
	}

	ordered := make([]ir.Type, 0, n)
	for _, idx := range order {
		ordered = append(ordered, types[idx])
	}
	return ordered
}

// topoSort produces a dependency-first order via depth-first post-order
// traversal with color marking. On a cycle it returns the offending path
// instead of an order.
func topoSort(n int, adj [][]int) (order []int, cycle []int) {
	colors := make([]visitColor, n)
	path := make([]int, 0, n)

	var visit func(int) []int
	visit = func(i int) []int {
		colors[i] = colorGray
		path = append(path, i)
		for _, dep := range adj[i] {
			switch colors[dep] {
			case colorWhite:
				if c := visit(dep); c != nil {
					return c
				}
			case colorGray:
				// Cut the recorded path down to the cycle itself.
				start := 0
				for k, idx := range path {
					if idx == dep {
						start = k
						break
					}
				}
				return append(append([]int{}, path[start:]...), dep)
			}
		}
		path = path[:len(path)-1]
		colors[i] = colorBlack
		order = append(order, i)
		return nil
	}

	for i := 0; i < n; i++ {
		if colors[i] == colorWhite {
			if c := visit(i); c != nil {
				return nil, c
			}
		}
	}
	return order, nil
}
