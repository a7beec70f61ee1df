package config_test

import (
	"fmt"
	"reflect"
	"strconv"

	"github.com/antonsamarsky/emitmapper-tools/config"
)

type moreThanError interface {
	error
	More()
}

func empty()                          { panic("not implemented") }
func wrong(int) (string, error, bool) { panic("not implemented") }

func full(int) (string, bool, error)          { panic("not implemented") }
func customError(int) (string, moreThanError) { panic("not implemented") }

func ExampleParseCaster() {
	desc, err := config.ParseCaster(full)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = config.ParseCaster(strconv.Itoa)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = config.ParseCaster(strconv.Atoi)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	desc, err = config.ParseCaster(customError)
	fmt.Println(err, desc.PackageAlias, desc.Name, desc.Src.Kind(), desc.Dst.Kind(), desc.HasBool, desc.HasErr)

	_, err = config.ParseCaster(empty)
	fmt.Println(err)

	_, err = config.ParseCaster(wrong)
	fmt.Println(err)

	_, err = config.ParseCaster(42)
	fmt.Println(err)

	// Output:
	// <nil> config_test full int string true true
	// <nil> strconv Itoa int string false false
	// <nil> strconv Atoi string int false true
	// <nil> config_test customError int string false true
	// provided function is not a recognizable converter
	// provided function is not a recognizable converter
	// provided converter is not a function
}

func ExampleCaster_Call() {
	desc, _ := config.ParseCaster(strconv.Atoi)

	out, ok, err := desc.Call(reflect.ValueOf("134567"))
	fmt.Println(out.Interface(), ok, err)

	_, ok, err = desc.Call(reflect.ValueOf("abc"))
	fmt.Println(ok, err != nil)

	// Output:
	// 134567 true <nil>
	// false true
}
