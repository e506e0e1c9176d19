package classfile

// Opcodes that need special decoding.
const (
	OpBipush          = 0x10
	OpSipush          = 0x11
	OpLdc             = 0x12
	OpIload           = 0x15
	OpAload           = 0x19
	OpIstore          = 0x36
	OpAstore          = 0x3a
	OpIinc            = 0x84
	OpGoto            = 0xa7
	OpRet             = 0xa9
	OpTableswitch     = 0xaa
	OpLookupswitch    = 0xab
	OpInvokeinterface = 0xb9
	OpInvokedynamic   = 0xba
	OpNewarray        = 0xbc
	OpWide            = 0xc4
	OpMultianewarray  = 0xc5
	OpGotoW           = 0xc8
)

// OpInfo describes one opcode: its mnemonic and the fixed operands that
// follow it. Switches and wide are variable-length and decoded specially.
type OpInfo struct {
	Name     string
	Operands []OperandKind
}

var opcodeNames = [...]string{
	"nop", "aconst_null", "iconst_m1", "iconst_0", "iconst_1", "iconst_2", "iconst_3", "iconst_4",
	"iconst_5", "lconst_0", "lconst_1", "fconst_0", "fconst_1", "fconst_2", "dconst_0", "dconst_1",
	"bipush", "sipush", "ldc", "ldc_w", "ldc2_w", "iload", "lload", "fload",
	"dload", "aload", "iload_0", "iload_1", "iload_2", "iload_3", "lload_0", "lload_1",
	"lload_2", "lload_3", "fload_0", "fload_1", "fload_2", "fload_3", "dload_0", "dload_1",
	"dload_2", "dload_3", "aload_0", "aload_1", "aload_2", "aload_3", "iaload", "laload",
	"faload", "daload", "aaload", "baload", "caload", "saload", "istore", "lstore",
	"fstore", "dstore", "astore", "istore_0", "istore_1", "istore_2", "istore_3", "lstore_0",
	"lstore_1", "lstore_2", "lstore_3", "fstore_0", "fstore_1", "fstore_2", "fstore_3", "dstore_0",
	"dstore_1", "dstore_2", "dstore_3", "astore_0", "astore_1", "astore_2", "astore_3", "iastore",
	"lastore", "fastore", "dastore", "aastore", "bastore", "castore", "sastore", "pop",
	"pop2", "dup", "dup_x1", "dup_x2", "dup2", "dup2_x1", "dup2_x2", "swap",
	"iadd", "ladd", "fadd", "dadd", "isub", "lsub", "fsub", "dsub",
	"imul", "lmul", "fmul", "dmul", "idiv", "ldiv", "fdiv", "ddiv",
	"irem", "lrem", "frem", "drem", "ineg", "lneg", "fneg", "dneg",
	"ishl", "lshl", "ishr", "lshr", "iushr", "lushr", "iand", "land",
	"ior", "lor", "ixor", "lxor", "iinc", "i2l", "i2f", "i2d",
	"l2i", "l2f", "l2d", "f2i", "f2l", "f2d", "d2i", "d2l",
	"d2f", "i2b", "i2c", "i2s", "lcmp", "fcmpl", "fcmpg", "dcmpl",
	"dcmpg", "ifeq", "ifne", "iflt", "ifge", "ifgt", "ifle", "if_icmpeq",
	"if_icmpne", "if_icmplt", "if_icmpge", "if_icmpgt", "if_icmple", "if_acmpeq", "if_acmpne", "goto",
	"jsr", "ret", "tableswitch", "lookupswitch", "ireturn", "lreturn", "freturn", "dreturn",
	"areturn", "return", "getstatic", "putstatic", "getfield", "putfield", "invokevirtual", "invokespecial",
	"invokestatic", "invokeinterface", "invokedynamic", "new", "newarray", "anewarray", "arraylength", "athrow",
	"checkcast", "instanceof", "monitorenter", "monitorexit", "wide", "multianewarray", "ifnull", "ifnonnull",
	"goto_w", "jsr_w", "breakpoint",
}

var opcodes [256]*OpInfo

func init() {
	for op, name := range opcodeNames {
		opcodes[op] = &OpInfo{Name: name}
	}
	opcodes[0xfe] = &OpInfo{Name: "impdep1"}
	opcodes[0xff] = &OpInfo{Name: "impdep2"}

	set := func(kinds []OperandKind, ops ...int) {
		for _, op := range ops {
			opcodes[op].Operands = kinds
		}
	}
	local1 := []OperandKind{OperandLocal1}
	const2 := []OperandKind{OperandConst2}
	branch2 := []OperandKind{OperandBranch2}

	set([]OperandKind{OperandS1}, OpBipush)
	set([]OperandKind{OperandS2}, OpSipush)
	set([]OperandKind{OperandConst1}, OpLdc)
	set(const2, 0x13, 0x14) // ldc_w, ldc2_w
	set(local1, 0x15, 0x16, 0x17, 0x18, 0x19, 0x36, 0x37, 0x38, 0x39, 0x3a, OpRet)
	set([]OperandKind{OperandLocal1, OperandS1}, OpIinc)
	for op := 0x99; op <= 0xa8; op++ {
		set(branch2, op)
	}
	set(branch2, 0xc6, 0xc7) // ifnull, ifnonnull
	set([]OperandKind{OperandBranch4}, OpGotoW, 0xc9)
	// getstatic..invokestatic, new, anewarray, checkcast, instanceof
	set(const2, 0xb2, 0xb3, 0xb4, 0xb5, 0xb6, 0xb7, 0xb8, 0xbb, 0xbd, 0xc0, 0xc1)
	// The count byte of invokeinterface is derivable from the descriptor and
	// travels with the trailing zero byte as one reserved field.
	set([]OperandKind{OperandConst2, OperandReserved}, OpInvokeinterface, OpInvokedynamic)
	set([]OperandKind{OperandArrayType}, OpNewarray)
	set([]OperandKind{OperandConst2, OperandU1}, OpMultianewarray)
}

// LookupOpcode returns the table entry for op, or false when op is undefined.
func LookupOpcode(op uint8) (*OpInfo, bool) {
	info := opcodes[op]
	return info, info != nil
}

// Widenable reports whether op may follow the wide prefix.
func Widenable(op uint8) bool {
	return (op >= OpIload && op <= OpAload) || (op >= OpIstore && op <= OpAstore) || op == OpRet || op == OpIinc
}
