// Package verify checks the structural invariants of a pool's block chain.
//
// It is used by tests after every mutation and by heapctl's verify step.
//
// Validated:
//   - Blocks are in strictly ascending address order and the prev/next
//     views agree with that order (head has no prev, tail has no next).
//   - No two blocks overlap and every block lies inside [0, capacity).
//   - Free bytes equal capacity minus the sum of HeaderSize+size.
//
// All functions return *ValidationError on failure:
//
//	if err := verify.FirstFit(ff); err != nil {
//	    var verr *verify.ValidationError
//	    if errors.As(err, &verr) {
//	        fmt.Printf("%s at 0x%X\n", verr.Type, verr.Offset)
//	    }
//	}
package verify
