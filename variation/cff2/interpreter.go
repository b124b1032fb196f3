// SPDX-License-Identifier: Unlicense OR BSD-3-Clause

package cff2

import "github.com/boxesandglue/fvarinstance/variation"

const opEndchar = 14

// Interpreter evaluates CFF2 `blend`/`vsindex` operators against one
// ItemVariationStore at one fixed normalized design-space point. Region
// scalars are computed once (NewInterpreter) and reused across every glyph
// of the instance — the same caching discipline as the Metrics Applier.
type Interpreter struct {
	store   variation.ItemVariationStore
	regions []float32 // one scalar per store region, indexed as in store.Regions
}

// NewInterpreter precomputes region scalars for normalized. store may be the
// zero value (no regions, no subtables) when the font carries no inline
// variation store; blend/vsindex then always fail with
// KindVsindexOutOfRange, matching a malformed CFF2 table.
func NewInterpreter(store variation.ItemVariationStore, normalized []float32) *Interpreter {
	return &Interpreter{store: store, regions: store.Scalars(normalized)}
}

// scalarsFor resolves the per-region scalar slice of vsindex outer
// subtable, in subtable-local region order.
func (ip *Interpreter) scalarsFor(outer int) ([]float32, error) {
	if outer < 0 || outer >= len(ip.store.Subtables) {
		return nil, &variation.Error{Kind: variation.KindVsindexOutOfRange, Detail: "vsindex"}
	}
	sub := ip.store.Subtables[outer]
	out := make([]float32, len(sub.RegionIndexes))
	for i, r := range sub.RegionIndexes {
		if r < 0 || r >= len(ip.regions) {
			return nil, &variation.Error{Kind: variation.KindVsindexOutOfRange, Detail: "region index"}
		}
		out[i] = ip.regions[r]
	}
	return out, nil
}

// rewriteCtx threads mutable interpreter state through recursive
// subroutine calls: the operand stack, the output byte offset each stack
// entry's encoding begins at (so blend/vsindex/callsubr can roll back
// operand bytes they consume without re-emitting them), the running hint
// count (for hintmask/cntrmask sizing) and the active vsindex scalars.
type rewriteCtx struct {
	stack   []float64
	spans   []int
	out     []byte
	hints   int
	scalars []float32
}

func (c *rewriteCtx) push(v float64) {
	start := len(c.out)
	c.out = append(c.out, encodeNumber(v)...)
	c.stack = append(c.stack, v)
	c.spans = append(c.spans, start)
}

// dropTop truncates the output back to the byte offset of the n most
// recently pushed operands and removes them from the stack, without
// emitting anything for them — used when those operands were consumed by
// vsindex, blend or a subroutine call rather than drawn through.
func (c *rewriteCtx) dropTop(n int) []float64 {
	base := len(c.stack) - n
	vals := append([]float64(nil), c.stack[base:]...)
	c.out = c.out[:c.spans[base]]
	c.stack = c.stack[:base]
	c.spans = c.spans[:base]
	return vals
}

func (c *rewriteCtx) clearImplicitVstem() {
	if len(c.stack) > 0 {
		c.hints += len(c.stack) / 2
	}
	c.stack = c.stack[:0]
	c.spans = c.spans[:0]
}

const maxSubrDepth = 64

// Rewrite flattens charstring into a blend/vsindex-free CharString: every
// `blend` is replaced by its resolved literals, `vsindex` is dropped, and
// every callsubr/callgsubr is inlined so the result is self-contained
// (needed since the instance emits a single non-CID CFF1 table with no
// per-glyph local subroutine selection). SPEC_FULL.md §4.6/§4.8.
func (ip *Interpreter) Rewrite(charstring []byte, localSubrs, globalSubrs [][]byte, defaultVSIndex int) ([]byte, error) {
	ctx := &rewriteCtx{}
	if len(ip.store.Subtables) > 0 || defaultVSIndex != 0 {
		scalars, err := ip.scalarsFor(defaultVSIndex)
		if err != nil {
			return nil, err
		}
		ctx.scalars = scalars
	}
	if err := ip.run(ctx, charstring, localSubrs, globalSubrs, 0); err != nil {
		return nil, err
	}
	return ctx.out, nil
}

func (ip *Interpreter) run(ctx *rewriteCtx, data []byte, localSubrs, globalSubrs [][]byte, depth int) error {
	if depth > maxSubrDepth {
		return &variation.Error{Kind: variation.KindMalformedDeltas, Detail: "subroutine nesting too deep"}
	}
	localBias := calcSubrBias(len(localSubrs))
	globalBias := calcSubrBias(len(globalSubrs))

	pos := 0
	for pos < len(data) {
		b := data[pos]
		if b >= 32 || b == opShortint || b == 255 {
			v, n := decodeOperand(data[pos:])
			if n == 0 || pos+n > len(data) {
				return &variation.Error{Kind: variation.KindOperandUnderflow, Detail: "truncated operand"}
			}
			ctx.push(v)
			pos += n
			continue
		}

		opStart := pos
		op := int(b)
		pos++
		if b == opEscape {
			if pos >= len(data) {
				return &variation.Error{Kind: variation.KindOperandUnderflow, Detail: "truncated escape operator"}
			}
			op = opEscape<<8 | int(data[pos])
			pos++
		}
		opBytes := data[opStart:pos]

		switch op {
		case opCallsubr, opCallgsubr:
			if len(ctx.stack) < 1 {
				return &variation.Error{Kind: variation.KindOperandUnderflow, Detail: "subroutine index"}
			}
			idx := int(ctx.dropTop(1)[0])
			var subrs [][]byte
			if op == opCallsubr {
				idx += localBias
				subrs = localSubrs
			} else {
				idx += globalBias
				subrs = globalSubrs
			}
			if idx < 0 || idx >= len(subrs) {
				return &variation.Error{Kind: variation.KindMalformedDeltas, Detail: "subroutine index out of range"}
			}
			if err := ip.run(ctx, subrs[idx], localSubrs, globalSubrs, depth+1); err != nil {
				return err
			}

		case opReturn:
			return nil

		case opVsindex:
			if len(ctx.stack) < 1 {
				return &variation.Error{Kind: variation.KindOperandUnderflow, Detail: "vsindex"}
			}
			idx := int(ctx.dropTop(1)[0])
			scalars, err := ip.scalarsFor(idx)
			if err != nil {
				return err
			}
			ctx.scalars = scalars

		case opBlend:
			if err := ip.applyBlend(ctx); err != nil {
				return err
			}

		case opHstem, opVstem, opHstemhm, opVstemhm:
			ctx.clearImplicitVstem()
			ctx.out = append(ctx.out, opBytes...)

		case opHintmask, opCntrmask:
			ctx.clearImplicitVstem()
			ctx.out = append(ctx.out, opBytes...)
			maskBytes := (ctx.hints + 7) / 8
			if pos+maskBytes > len(data) {
				return &variation.Error{Kind: variation.KindOperandUnderflow, Detail: "truncated hint mask"}
			}
			ctx.out = append(ctx.out, data[pos:pos+maskBytes]...)
			pos += maskBytes

		case opRmoveto, opHmoveto, opVmoveto,
			opRlineto, opHlineto, opVlineto, opRrcurveto,
			opRcurveline, opRlinecurve, opVvcurveto, opHhcurveto,
			opVhcurveto, opHvcurveto,
			opHflex, opFlex, opHflex1, opFlex1:
			ctx.stack = ctx.stack[:0]
			ctx.spans = ctx.spans[:0]
			ctx.out = append(ctx.out, opBytes...)

		default:
			return &variation.Error{Kind: variation.KindMalformedDeltas, Detail: "unsupported CFF2 operator"}
		}
	}
	return nil
}

// applyBlend implements the `blend` operator: pops the blend count and
// n*(R+1) operands, pushes n resolved literals in their place. SPEC_FULL.md
// §4.6.
func (ip *Interpreter) applyBlend(ctx *rewriteCtx) error {
	if len(ip.store.Subtables) == 0 {
		return &variation.Error{Kind: variation.KindVsindexOutOfRange, Detail: "blend without a variation store"}
	}
	if len(ctx.stack) < 1 {
		return &variation.Error{Kind: variation.KindOperandUnderflow, Detail: "blend count"}
	}
	n := int(ctx.stack[len(ctx.stack)-1])
	r := len(ctx.scalars)
	total := n*(r+1) + 1
	if n <= 0 || total > len(ctx.stack) {
		return &variation.Error{Kind: variation.KindOperandUnderflow, Detail: "blend operands"}
	}

	args := ctx.dropTop(total)
	args = args[:len(args)-1] // drop the trailing count operand

	for i := 0; i < n; i++ {
		base := args[i]
		deltas := args[n+i*r : n+(i+1)*r]
		for j, d := range deltas {
			base += float64(ctx.scalars[j]) * d
		}
		ctx.push(base)
	}
	return nil
}
