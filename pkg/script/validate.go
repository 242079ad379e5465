package script

import (
	stderrors "errors"
	"fmt"
	"reflect"
	"slices"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"

	"github.com/matzehuels/dsanim/pkg/anim"
	"github.com/matzehuels/dsanim/pkg/errors"
	"github.com/matzehuels/dsanim/pkg/scene"
)

var validate = sync.OnceValue(func() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("toml"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	must(v.RegisterValidation("direction", func(fl validator.FieldLevel) bool {
		_, ok := directions[strings.ToLower(fl.Field().String())]
		return ok
	}))
	must(v.RegisterValidation("theme", func(fl validator.FieldLevel) bool {
		_, ok := scene.Themes[strings.ToLower(fl.Field().String())]
		return ok
	}))
	must(v.RegisterValidation("rate", func(fl validator.FieldLevel) bool {
		return slices.Contains(anim.RateNames(), fl.Field().String())
	}))
	return v
})

func must(err error) {
	if err != nil {
		panic(err)
	}
}

// kindOps lists the operations each structure kind accepts.
var kindOps = map[Kind][]Op{
	KindArray: {
		OpAppend, OpPop, OpSwap, OpSetValue, OpAddIndexes,
		OpHighlight, OpClearHighlight, OpAddLabel, OpShift, OpScale,
	},
	KindStack: {
		OpAppend, OpPop, OpSwap, OpSetValue,
		OpHighlight, OpClearHighlight, OpAddLabel, OpShift, OpScale,
	},
	KindVariable: {
		OpSetValue, OpHighlight, OpClearHighlight, OpAddLabel, OpShift, OpScale,
	},
	KindGraph: {
		OpAddNode, OpAddEdge, OpAddCurvedEdge, OpShowBackwardEdge, OpNodeLayout,
		OpHighlight, OpClearHighlight, OpSetNodeHighlight, OpSetEdgeHighlight,
		OpAddLabel, OpShift, OpScale,
	},
}

// Validate checks field constraints and then replays the steps against a
// model of the structures: every target must exist and accept the
// operation, every operation must carry its arguments, collection indexes
// must be in range and graph steps must name known nodes.
func (s *Script) Validate() error {
	if err := validate().Struct(s); err != nil {
		return formatValidationError(err)
	}

	models := make(map[string]*model, len(s.Structures))
	for i, st := range s.Structures {
		if err := errors.ValidateIdentifier(st.ID); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "structures[%d]", i)
		}
		if _, dup := models[st.ID]; dup {
			return errors.New(errors.ErrCodeInvalidScript, "structures[%d]: duplicate id %q", i, st.ID)
		}
		if err := st.checkFields(); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "structures[%d] (%s)", i, st.ID)
		}
		models[st.ID] = newModel(st)
	}

	for i, step := range s.Steps {
		if err := checkStep(step, models); err != nil {
			return errors.Wrap(errors.ErrCodeInvalidScript, err, "steps[%d] (%s %s)", i, step.Op, step.Target)
		}
	}
	return nil
}

func (st Structure) checkFields() error {
	graphOnly := len(st.Adjacency) > 0 || len(st.Positions) > 0 || st.Layout != ""
	if graphOnly && st.Kind != KindGraph {
		return fmt.Errorf("adjacency, positions and layout apply to graphs only")
	}
	if len(st.Values) > 0 && st.Kind != KindArray && st.Kind != KindStack {
		return fmt.Errorf("values apply to arrays and stacks only")
	}
	if st.Value != nil && st.Kind != KindVariable {
		return fmt.Errorf("value applies to variables only")
	}
	if st.Indexes != "" && st.Kind != KindArray {
		return fmt.Errorf("indexes apply to arrays only")
	}
	if st.Direction != "" && st.Kind != KindArray {
		return fmt.Errorf("direction applies to arrays only")
	}
	return nil
}

// model tracks what validation needs to know about a structure while the
// steps are replayed.
type model struct {
	kind  Kind
	len   int
	nodes map[string]bool
}

func newModel(st Structure) *model {
	m := &model{kind: st.Kind, len: len(st.Values), nodes: map[string]bool{}}
	for n, nbs := range st.Adjacency {
		m.nodes[n] = true
		for _, nb := range nbs {
			m.nodes[nb.Node] = true
		}
	}
	for n := range st.Positions {
		m.nodes[n] = true
	}
	return m
}

func (m *model) checkIndex(name string, i *int) error {
	if i == nil {
		return fmt.Errorf("%s is required", name)
	}
	if *i >= m.len {
		return errors.New(errors.ErrCodeOutOfBounds, "%s %d out of range [0, %d)", name, *i, m.len)
	}
	return nil
}

func (m *model) checkNodes(names ...string) error {
	for _, n := range names {
		if n == "" {
			return fmt.Errorf("node names are required")
		}
		if !m.nodes[n] {
			return errors.New(errors.ErrCodeNodeNotFound, "node %q not found", n)
		}
	}
	return nil
}

func checkStep(s Step, models map[string]*model) error {
	if s.Op == OpWait {
		if s.Duration <= 0 {
			return fmt.Errorf("duration is required")
		}
		return nil
	}
	m, ok := models[s.Target]
	if !ok {
		return errors.New(errors.ErrCodeStructNotFound, "structure %q not found", s.Target)
	}
	if !slices.Contains(kindOps[m.kind], s.Op) {
		return fmt.Errorf("%s does not support %q", m.kind, s.Op)
	}

	switch s.Op {
	case OpAppend:
		if s.Value == nil {
			return fmt.Errorf("value is required")
		}
		m.len++
	case OpPop:
		if m.len == 0 {
			return nil
		}
		if s.Index != nil && m.kind == KindArray {
			if err := m.checkIndex("index", s.Index); err != nil {
				return err
			}
		}
		m.len--
	case OpSwap:
		if err := m.checkIndex("i", s.I); err != nil {
			return err
		}
		return m.checkIndex("j", s.J)
	case OpSetValue:
		if s.Value == nil {
			return fmt.Errorf("value is required")
		}
		if m.kind != KindVariable {
			return m.checkIndex("index", s.Index)
		}
	case OpAddNode:
		if s.Node == "" {
			return fmt.Errorf("node is required")
		}
		if m.nodes[s.Node] {
			return errors.New(errors.ErrCodeDuplicateNode, "node %q already exists", s.Node)
		}
		m.nodes[s.Node] = true
	case OpAddEdge, OpAddCurvedEdge, OpShowBackwardEdge:
		return m.checkNodes(s.From, s.To)
	case OpHighlight, OpClearHighlight:
		return checkHighlightTarget(s, m)
	case OpSetNodeHighlight, OpSetEdgeHighlight:
		if s.Color == "" {
			return fmt.Errorf("color is required")
		}
	case OpAddLabel:
		if s.Text == "" {
			return fmt.Errorf("text is required")
		}
	case OpShift:
		if s.Offset == nil {
			return fmt.Errorf("offset is required")
		}
	case OpScale:
		if s.Factor <= 0 {
			return fmt.Errorf("factor is required")
		}
	}
	return nil
}

func checkHighlightTarget(s Step, m *model) error {
	switch m.kind {
	case KindArray, KindStack:
		return m.checkIndex("index", s.Index)
	case KindGraph:
		switch {
		case s.Node != "":
			return m.checkNodes(s.Node)
		case s.From != "" || s.To != "":
			return m.checkNodes(s.From, s.To)
		}
		return fmt.Errorf("node or from/to is required")
	}
	return nil
}

// formatValidationError reports the first failed constraint with its field
// path, e.g. "structures[0].kind: must be one of array stack graph variable".
func formatValidationError(err error) error {
	var verrs validator.ValidationErrors
	if !stderrors.As(err, &verrs) || len(verrs) == 0 {
		return errors.Wrap(errors.ErrCodeInvalidScript, err, "invalid script")
	}
	e := verrs[0]
	_, field, _ := strings.Cut(e.Namespace(), ".")
	var msg string
	switch e.Tag() {
	case "required", "required_unless":
		msg = "field is required"
	case "min":
		msg = "must have at least " + e.Param() + " entries"
	case "oneof":
		msg = "must be one of " + e.Param()
	case "gt":
		msg = "must be greater than " + e.Param()
	case "gte":
		msg = "must be at least " + e.Param()
	case "lt":
		msg = "must be less than " + e.Param()
	case "lte":
		msg = "must not exceed " + e.Param()
	case "hexcolor":
		msg = "must be a hex colour"
	case "direction":
		msg = "must be one of up down left right ul ur dl dr"
	case "theme":
		msg = "unknown theme"
	case "rate":
		msg = "must be one of " + strings.Join(anim.RateNames(), " ")
	default:
		msg = fmt.Sprintf("validation failed (%s)", e.Tag())
	}
	return errors.New(errors.ErrCodeInvalidScript, "%s: %s", field, msg)
}
