package document

import (
	"fmt"
	"iter"
	"maps"
	"reflect"
	"strconv"
	"strings"

	"github.com/custodia-labs/piidoc/internal/core/domain"
)

// tree is a forest of nested chunks, flattened depth-first in pre-order.
// Child identifiers are the parent identifier plus a dotted 1-based index.
type tree struct{}

// treeFrame is one entry of the builder ancestor stack.
type treeFrame struct {
	path []int
	ctx  domain.Context
}

func (tree) kind() domain.DocumentType { return domain.DocumentTree }

func (tree) structural(recs iter.Seq[domain.Record]) iter.Seq[domain.Record] {
	return func(yield func(domain.Record) bool) {
		n := 0
		for rec := range recs {
			if rec.ID == "" {
				n++
				rec.ID = strconv.Itoa(n)
			}
			if !yield(withChildIDs(rec)) {
				return
			}
		}
	}
}

// withChildIDs returns rec with dotted identifiers on all descendants.
func withChildIDs(rec domain.Record) domain.Record {
	if len(rec.Children) == 0 {
		return rec
	}
	children := make([]domain.Record, len(rec.Children))
	for i, child := range rec.Children {
		child.ID = rec.ID + "." + strconv.Itoa(i+1)
		children[i] = withChildIDs(child)
	}
	rec.Children = children
	return rec
}

func (tree) flatten(recs iter.Seq[domain.Record], _ domain.Metadata) iter.Seq2[domain.Record, domain.Context] {
	return func(yield func(domain.Record, domain.Context) bool) {
		for rec := range recs {
			if !walkTree(rec, nil, 0, yield) {
				return
			}
		}
	}
}

// walkTree visits rec and its descendants. Containers without payload are
// not yielded but their context is still inherited by their children.
func walkTree(rec domain.Record, inherited domain.Context, level int, yield func(domain.Record, domain.Context) bool) bool {
	ctx := inherited
	if len(rec.Context) > 0 {
		ctx = make(domain.Context, len(inherited)+len(rec.Context))
		maps.Copy(ctx, inherited)
		maps.Copy(ctx, rec.Context)
	}

	if rec.HasData() {
		out := domain.Record{ID: rec.ID, Data: rec.Data, Context: ctx.Clone()}
		if !yield(out, domain.Context{domain.CtxLevel: level}) {
			return false
		}
	}
	for _, child := range rec.Children {
		if !walkTree(child, ctx, level+1, yield) {
			return false
		}
	}
	return true
}

func (tree) add(d *Document, c domain.Chunk) error {
	level, err := chunkLevel(c)
	if err != nil {
		return err
	}
	if level < 0 || level > len(d.treeStack) {
		prev := len(d.treeStack) - 1
		return fmt.Errorf("%w: level gap in document tree for chunk %s (level %d after %d)",
			domain.ErrInvalidArgument, c.ID, level, prev)
	}

	ctx := d.storedContext(c.Context)
	var inherited domain.Context
	if level > 0 {
		inherited = d.treeStack[level-1].ctx
	}
	rec := domain.Record{ID: c.ID, Data: c.Data, Context: withoutInherited(ctx, inherited)}

	var path []int
	if level == 0 {
		d.records = append(d.records, rec)
		path = []int{len(d.records) - 1}
	} else {
		parentPath := d.treeStack[level-1].path
		parent := d.nodeAt(parentPath)
		parent.Children = append(parent.Children, rec)
		path = append(append([]int{}, parentPath...), len(parent.Children)-1)
	}
	d.treeStack = append(d.treeStack[:level], treeFrame{path: path, ctx: ctx})
	return nil
}

// treeRestorer tracks the identifier of the open node at each level while
// a flattened tree is added back.
type treeRestorer struct {
	open []string
}

func (r *treeRestorer) add(d *Document, c domain.Chunk) error {
	level, err := chunkLevel(c)
	if err != nil {
		return err
	}

	if ancestors, ok := ancestorIDs(c.ID, level); ok {
		diverged := false
		for lvl, id := range ancestors {
			if !diverged && lvl < len(r.open) && r.open[lvl] == id {
				continue
			}
			diverged = true
			container := domain.NewChunk(id, nil, domain.Context{domain.CtxLevel: lvl})
			if err := d.AddChunk(container); err != nil {
				return err
			}
			r.open = append(r.open[:lvl], id)
		}
	}

	if err := d.AddChunk(c); err != nil {
		return err
	}
	if level <= len(r.open) {
		r.open = append(r.open[:level], c.ID)
	}
	return nil
}

// ancestorIDs derives the identifiers of the level ancestors of a dotted
// child identifier, root first.
func ancestorIDs(id string, level int) ([]string, bool) {
	out := make([]string, level)
	cur := id
	for i := level - 1; i >= 0; i-- {
		cut := strings.LastIndexByte(cur, '.')
		if cut <= 0 {
			return nil, false
		}
		cur = cur[:cut]
		out[i] = cur
	}
	return out, true
}

// nodeAt returns the record addressed by an index path.
func (d *Document) nodeAt(path []int) *domain.Record {
	node := &d.records[path[0]]
	for _, i := range path[1:] {
		node = &node.Children[i]
	}
	return node
}

// withoutInherited drops keys whose value is inherited unchanged from an
// ancestor.
func withoutInherited(ctx, inherited domain.Context) domain.Context {
	if len(ctx) == 0 || len(inherited) == 0 {
		return ctx
	}
	out := make(domain.Context, len(ctx))
	for k, v := range ctx {
		if pv, ok := inherited[k]; ok && reflect.DeepEqual(pv, v) {
			continue
		}
		out[k] = v
	}
	if len(out) == 0 {
		return nil
	}
	return out
}

func chunkLevel(c domain.Chunk) (int, error) {
	v, ok := c.Context[domain.CtxLevel]
	if !ok || v == nil {
		return 0, nil
	}
	level, ok := domain.AsInt(v)
	if !ok {
		return 0, fmt.Errorf("%w: invalid level %v for chunk %s", domain.ErrInvalidArgument, v, c.ID)
	}
	return level, nil
}
