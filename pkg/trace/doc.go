// Package trace runs scripted alloc/free scenarios against a heapkit.System.
//
// A trace is a YAML document naming the pool capacities and a list of
// steps:
//
//	name: reference
//	pools: [1MiB, 3MiB]
//	backing: heap            # heap (default) or mmap
//	steps:
//	  - {op: alloc, pool: 0, size: 2MiB, expect: fail}
//	  - {op: alloc, pool: 1, size: 2MiB, as: p}
//	  - {op: check, pool: 1, free: 1048552, live: 1}
//	  - {op: free, ref: p}
//	  - {op: verify}
//
// Sizes are plain integers or strings with a unit suffix (B, K/KiB, M/MiB,
// G/GiB; all binary). Ops:
//
//   - alloc: pool, size; optional as (a name for the block) and
//     expect (ok, the default, or fail)
//   - free: ref names a block from an earlier alloc; unknown names free a
//     nil slice, which is a no-op
//   - check: pool plus any of free, allocated, live
//   - verify: check block chain invariants of every pool
//
// Run stops at the first unmet expectation and returns a *StepError along
// with the partial Report.
package trace
