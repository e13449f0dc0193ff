package alloc_test

import (
	"errors"
	"fmt"

	"github.com/joshuapare/blockalloc/alloc"
)

func Example() {
	a, err := alloc.New(100)
	if err != nil {
		panic(err)
	}
	defer a.Destroy()

	off1, _ := a.Alloc(20, 1)
	off2, _ := a.Alloc(30, 2)
	fmt.Println(off1, off2)

	if _, err := a.Alloc(60, 3); errors.Is(err, alloc.ErrNoSpace) {
		fmt.Println("no space for 60 bytes")
	}

	freed, _ := a.FreeOwner(1)
	off3, _ := a.Alloc(10, 4)
	fmt.Println(freed, off3)
	// Output:
	// 0 20
	// no space for 60 bytes
	// 20 0
}
