package mapper_test

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/antonsamarsky/emitmapper-tools/config"
	"github.com/antonsamarsky/emitmapper-tools/mapper"
)

func ExampleMap() {
	type (
		source struct {
			ID    int
			Items []int
		}
		target struct {
			ID    string
			Items []string
		}
	)

	out, err := mapper.Map[source, target](mapper.New(), source{ID: 134567, Items: []int{1, 2}})
	if err != nil {
		panic(err)
	}

	fmt.Printf("%q %q\n", out.ID, out.Items)
	// Output: "134567" ["1" "2"]
}

func ExampleCore_RegisterConfiguration() {
	type (
		source struct{ ID int }
		target struct{ ID string }
	)

	core := mapper.New()

	err := core.RegisterConfiguration(reflect.TypeFor[source](), mapper.Any,
		config.Default().ConvertUsing(func(id int) string { return "#" + strconv.Itoa(id) }))
	if err != nil {
		panic(err)
	}

	out, err := mapper.Map[source, target](core, source{ID: 7})
	if err != nil {
		panic(err)
	}

	fmt.Println(out.ID)
	// Output: #7
}
