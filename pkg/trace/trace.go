package trace

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/joshuapare/heapkit/pkg/heapkit"
)

// Op names a step kind.
type Op string

const (
	OpAlloc  Op = "alloc"
	OpFree   Op = "free"
	OpCheck  Op = "check"
	OpVerify Op = "verify"
)

// Expectations for alloc steps.
const (
	ExpectOK   = "ok"
	ExpectFail = "fail"
)

// Trace is a parsed scenario.
type Trace struct {
	Name    string `yaml:"name"`
	Pools   []Size `yaml:"pools"`
	Backing string `yaml:"backing"`
	Steps   []Step `yaml:"steps"`
}

// Step is one scripted call. Which fields apply depends on Op.
type Step struct {
	Op     Op     `yaml:"op"`
	Pool   *int   `yaml:"pool"`
	Size   Size   `yaml:"size"`
	As     string `yaml:"as"`
	Expect string `yaml:"expect"`
	Ref    string `yaml:"ref"`

	Free      *Size `yaml:"free"`
	Allocated *Size `yaml:"allocated"`
	Live      *int  `yaml:"live"`
}

//go:embed reference.yaml
var referenceYAML []byte

// Reference returns the built-in scenario: pools of 1 MiB and 3 MiB, an
// oversize request that must fail, a 2 MiB round trip, and three 1 KiB
// blocks freed out of order.
func Reference() *Trace {
	t, err := Load(bytes.NewReader(referenceYAML))
	if err != nil {
		panic(fmt.Sprintf("trace: embedded reference is invalid: %v", err))
	}
	return t
}

// Load parses and validates a trace. Unknown fields are rejected.
func Load(r io.Reader) (*Trace, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	var t Trace
	if err := dec.Decode(&t); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("trace: empty document")
		}
		return nil, fmt.Errorf("trace: %w", err)
	}
	if err := t.Validate(); err != nil {
		return nil, err
	}
	return &t, nil
}

// LoadFile reads a trace from path.
func LoadFile(path string) (*Trace, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	t, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Validate checks step shapes. Capacities and sizes are left to heapkit,
// so a trace can script invalid arguments on purpose.
func (t *Trace) Validate() error {
	if len(t.Pools) == 0 {
		return errors.New("trace: no pools")
	}
	if _, err := t.backing(); err != nil {
		return err
	}
	for i, st := range t.Steps {
		if err := st.validate(); err != nil {
			return fmt.Errorf("trace: step %d: %w", i, err)
		}
	}
	return nil
}

func (t *Trace) backing() (heapkit.Backing, error) {
	switch t.Backing {
	case "", "heap":
		return heapkit.BackingHeap, nil
	case "mmap":
		return heapkit.BackingMmap, nil
	default:
		return 0, fmt.Errorf("trace: unknown backing %q", t.Backing)
	}
}

func (t *Trace) capacities() []int {
	out := make([]int, len(t.Pools))
	for i, s := range t.Pools {
		out[i] = int(s)
	}
	return out
}

func (st Step) validate() error {
	switch st.Op {
	case OpAlloc:
		if st.Pool == nil {
			return errors.New("alloc needs pool")
		}
		switch st.Expect {
		case "", ExpectOK, ExpectFail:
		default:
			return fmt.Errorf("unknown expect %q", st.Expect)
		}
	case OpFree:
		if st.Ref == "" {
			return errors.New("free needs ref")
		}
	case OpCheck:
		if st.Pool == nil {
			return errors.New("check needs pool")
		}
		if st.Free == nil && st.Allocated == nil && st.Live == nil {
			return errors.New("check needs free, allocated or live")
		}
	case OpVerify:
	case "":
		return errors.New("missing op")
	default:
		return fmt.Errorf("unknown op %q", st.Op)
	}
	return nil
}
