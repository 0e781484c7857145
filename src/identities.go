package nanosynth

/*------------------------------------------------------------------
 *
 * Purpose:	Algebraic identity rewrites applied by the binary-operator
 *		emitter before the default node-emission path, so the
 *		dead-code eliminator never has to clean them up later.
 *
 *------------------------------------------------------------------*/

// applyBinaryIdentity returns a rewritten Value and true when (op, a, b)
// matches one of spec.md section 4.1's identities. Rewrites apply
// regardless of operand rate and only fire when the "0"/"1"/"-1" operand
// is literally a Constant with that value.
func applyBinaryIdentity(op BinaryOp, a, b Value) (Value, bool) {
	ca, aIsConst := constantVal(a)
	cb, bIsConst := constantVal(b)

	switch op {
	case OpMul:
		if aIsConst && ca == 0 {
			return Constant{Val: 0}, true
		}
		if bIsConst && cb == 0 {
			return Constant{Val: 0}, true
		}
		if bIsConst && cb == 1 {
			return a, true
		}
		if aIsConst && ca == 1 {
			return b, true
		}
		if bIsConst && cb == -1 {
			return Neg(a), true
		}
		if aIsConst && ca == -1 {
			return Neg(b), true
		}
	case OpAdd:
		if bIsConst && cb == 0 {
			return a, true
		}
		if aIsConst && ca == 0 {
			return b, true
		}
	case OpSub:
		if bIsConst && cb == 0 {
			return a, true
		}
		if aIsConst && ca == 0 {
			return Neg(b), true
		}
	case OpFDiv:
		if bIsConst && cb == 1 {
			return a, true
		}
		if bIsConst && cb == -1 {
			return Neg(a), true
		}
	case OpPow:
		if bIsConst && cb == 0 {
			return Constant{Val: 1}, true
		}
		if bIsConst && cb == 1 {
			return a, true
		}
	}

	return nil, false
}
