// Package descriptor parses JVM field and method descriptors and renders
// them as Java-like source text.
//
// # Grammar
//
//	FieldType  = BaseType | "L" ClassName ";" | "[" FieldType
//	BaseType   = "B" | "C" | "D" | "F" | "I" | "J" | "S" | "Z"
//	Method     = "(" { FieldType } ")" ( FieldType | "V" )
//
// # Formatting
//
// Format folds a member name into the rendered descriptor:
//
//	Format("Ljava/lang/String;", "name")  // "java.lang.String name"
//	Format("(I[J)V", "run")               // "void run(int, long[])"
//	Format("(LHelloWorld;)V", "")         // "void (HelloWorld)"
//
// Class names are shown in binary form with '/' replaced by '.'.
package descriptor
