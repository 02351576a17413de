package gunzip_test

import (
	"bytes"
	"fmt"
	"io"
	"os"

	"github.com/klauspost/compress/gzip"

	"github.com/JoshVarga/gunzip"
)

func gzipped(s string) []byte {
	var b bytes.Buffer
	w := gzip.NewWriter(&b)
	w.Write([]byte(s))
	w.Close()
	return b.Bytes()
}

func ExampleNewReader() {
	b := bytes.NewReader(gzipped("AIAIAIAIAIAIA"))
	r, err := gunzip.NewReader(b)
	if err != nil {
		panic(err)
	}
	_, err = io.Copy(os.Stdout, r)
	// Output: AIAIAIAIAIAIA
	if err != nil {
	}
	err = r.Close()
	if err != nil {
	}
}

func ExampleDecoder_Push() {
	stream := gzipped("hello, hello, hello")
	d := gunzip.NewDecoder(nil)
	var out bytes.Buffer
	for len(stream) > 0 {
		n := 4
		if n > len(stream) {
			n = len(stream)
		}
		status, err := d.Push(stream[:n], func(p []byte) { out.Write(p) })
		if err != nil {
			panic(err)
		}
		if status == gunzip.Done {
			break
		}
		stream = stream[n:]
	}
	fmt.Println(out.String())
	// Output: hello, hello, hello
}
