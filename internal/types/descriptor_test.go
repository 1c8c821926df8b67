package types

import "testing"

func TestPrimitiveInterned(t *testing.T) {
	a := CreatePrimitive(I32)
	b := CreatePrimitive(I32)
	if a != b {
		t.Fatalf("expected interned primitive identity, got distinct pointers")
	}
	if !a.Equals(b) {
		t.Fatalf("expected Equals to hold for identical primitives")
	}
	if a.Hash() != b.Hash() {
		t.Fatalf("Equals implies equal Hash")
	}
}

func TestEqualsSymmetricReflexive(t *testing.T) {
	a := CreatePointer(CreatePrimitive(I32), true)
	b := CreatePointer(CreatePrimitive(I32), true)
	if !a.Equals(a) {
		t.Fatalf("Equals must be reflexive")
	}
	if a.Equals(b) != b.Equals(a) {
		t.Fatalf("Equals must be symmetric")
	}
}

func TestGenericInstanceCanonicalization(t *testing.T) {
	base := CreateStruct("Vec", 1)
	base.SetTypeParams([]string{"T"})
	if err := base.AddStructField(&FieldEntry{Name: "data", Type: CreateTypeParam("T")}); err != nil {
		t.Fatal(err)
	}

	i32 := CreatePrimitive(I32)
	inst1, err := Instantiate(base, []*Descriptor{i32})
	if err != nil {
		t.Fatal(err)
	}
	inst2, err := Instantiate(base, []*Descriptor{i32})
	if err != nil {
		t.Fatal(err)
	}
	if inst1 != inst2 {
		t.Fatalf("expected canonical generic-instance identity")
	}
	if !inst1.Equals(inst2) {
		t.Fatalf("expected generic instances to compare equal")
	}
	if len(inst1.TypeArgs()) != len(base.TypeParams()) {
		t.Fatalf("type_arg_count must equal base.type_param_count")
	}

	fieldType, ok := ResolveFieldType(inst1, "data")
	if !ok {
		t.Fatalf("expected field lookup to succeed")
	}
	if !fieldType.Equals(i32) {
		t.Fatalf("expected substituted field type i32, got %s", fieldType)
	}
}

func TestInstantiateRejectsNonStructEnum(t *testing.T) {
	prim := CreatePrimitive(I32)
	if _, err := Instantiate(prim, []*Descriptor{prim}); err == nil {
		t.Fatalf("expected error instantiating a primitive base")
	}
}

func TestArrayRefcountRelease(t *testing.T) {
	elem := CreatePrimitive(U8)
	arr := CreateArray(elem, 4)
	if arr.RefCount() != 1 {
		t.Fatalf("expected fresh descriptor to have refcount 1, got %d", arr.RefCount())
	}
	before := elem.RefCount()
	arr.Retain()
	if arr.RefCount() != 2 {
		t.Fatalf("expected refcount 2 after retain")
	}
	arr.Release()
	if elem.RefCount() != before {
		t.Fatalf("release of one ref must not free shared child")
	}
}
