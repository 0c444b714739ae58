package heapkit_test

import (
	"errors"
	"fmt"

	"github.com/joshuapare/heapkit/pkg/heapkit"
)

// Example walks through two pools of 1 MiB and 3 MiB.
func Example() {
	sys, err := heapkit.New([]int{1 << 20, 3 << 20}, nil)
	if err != nil {
		fmt.Println("init:", err)
		return
	}
	defer sys.Close()

	if _, err := sys.Alloc(0, 2<<20); errors.Is(err, heapkit.ErrOutOfMemory) {
		fmt.Println("pool 0: too small for 2 MiB")
	}

	buf, err := sys.Alloc(1, 2<<20)
	if err != nil {
		fmt.Println("alloc:", err)
		return
	}
	fmt.Println("pool 1 free:", sys.FreeSize(1))

	sys.Free(buf)
	fmt.Println("pool 1 free after Free:", sys.FreeSize(1))
	// Output:
	// pool 0: too small for 2 MiB
	// pool 1 free: 1048552
	// pool 1 free after Free: 3145728
}
