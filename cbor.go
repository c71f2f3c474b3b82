// SPDX-FileCopyrightText: (C) 2025 Content Authenticity Initiative
// SPDX-License-Identifier: Apache 2.0

package cbor

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"math/big"
	"reflect"
	"runtime"
	"slices"
	"sort"
	"strconv"
	"strings"
	"unicode/utf8"
)

// Marshaler is implemented by types that encode themselves to valid CBOR.
type Marshaler interface {
	MarshalCBOR() ([]byte, error)
}

// Unmarshaler is implemented by types that decode a CBOR description of
// themselves. The data is invalid once the method returns.
type Unmarshaler interface {
	UnmarshalCBOR([]byte) error
}

// RawBytes encodes and decodes untransformed. When encoding, its contents
// must already be valid, definite-length CBOR.
type RawBytes []byte

// MarshalCBOR implements Marshaler.
func (b RawBytes) MarshalCBOR() ([]byte, error) {
	if b == nil {
		return []byte{}, nil
	}
	return b, nil
}

// UnmarshalCBOR implements Unmarshaler.
func (b *RawBytes) UnmarshalCBOR(p []byte) error { *b = p; return nil }

var bigIntType = reflect.TypeOf(big.Int{})

// Marshal encodes v as CBOR.
func Marshal(v any) ([]byte, error) {
	var buf bytes.Buffer
	if err := NewEncoder(&buf).Encode(v); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// Unmarshal decodes a single CBOR item from data into v, which must be a
// non-nil pointer. Bytes left over after the item is fully decoded produce
// a [TrailingBytesError].
func Unmarshal(data []byte, v any) error {
	dec := NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(v); err != nil {
		return err
	}
	if n := int64(len(data)) - dec.src.offset; n > 0 {
		return &TrailingBytesError{Offset: dec.src.offset, N: int(n)}
	}
	return nil
}

// UnknownFieldsPolicy controls how a Decoder handles a map key with no
// matching struct field.
type UnknownFieldsPolicy int

const (
	// AllowUnknownFields silently discards map entries with no matching
	// struct field. This is the default.
	AllowUnknownFields UnknownFieldsPolicy = iota
	// ErrorOnUnknownFields fails decoding with UnknownFieldError.
	ErrorOnUnknownFields
)

// Decoder iteratively decodes CBOR items from an underlying byte source.
type Decoder struct {
	src *source

	// UnknownFields controls decoding of map keys that have no matching
	// struct field. The default, the zero value, is AllowUnknownFields.
	UnknownFields UnknownFieldsPolicy
}

// NewDecoder returns a new Decoder reading from r. r is wrapped in a
// bufio.Reader unless it already is one.
func NewDecoder(r io.Reader) *Decoder {
	return &Decoder{src: newSource(r)}
}

// Decode a single CBOR item into v, which must be a non-nil pointer.
func (d *Decoder) Decode(v any) error {
	for rv := reflect.ValueOf(v); (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && !rv.IsNil(); rv = rv.Elem() {
		if u, ok := rv.Interface().(Unmarshaler); ok {
			b, err := d.src.decodeRawItem()
			if err != nil {
				return err
			}
			return u.UnmarshalCBOR(b)
		}
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("cbor: decode target must be a non-nil pointer, got %T", v)
	}
	deref := rv.Elem()

	switch deref.Kind() {
	case reflect.Slice:
		deref.Set(reflect.MakeSlice(deref.Type(), 0, 0))
	case reflect.Map:
		deref.Set(reflect.MakeMap(deref.Type()))
	}

	h, err := d.src.readHead()
	if err != nil {
		return err
	}
	return d.decodeVal(deref, h)
}

// allocateInterface initializes the memory of a nil interface value so
// that it can be Set with a concrete type.
func allocateInterface(maybeUnsetVal reflect.Value, newType reflect.Type) {
	if maybeUnsetVal.Kind() != reflect.Interface || !maybeUnsetVal.IsNil() {
		return
	}
	switch newType.Kind() {
	case reflect.Map:
		maybeUnsetVal.Set(reflect.MakeMap(newType))
	case reflect.Slice:
		maybeUnsetVal.Set(reflect.MakeSlice(newType, 0, 0))
	default:
		maybeUnsetVal.Set(reflect.New(newType).Elem())
	}
}

//nolint:gocyclo // dispatch by major type is naturally high complexity
func (d *Decoder) decodeVal(rv reflect.Value, h head) error {
	if rv.Kind() == reflect.Pointer {
		if h.major == simpleMajorType && !h.indefinite && (h.info == nullVal || h.info == undefinedVal) {
			rv.SetZero()
			return nil
		}
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		if u, ok := rv.Interface().(Unmarshaler); ok {
			b, err := d.src.decodeRawFromHead(h)
			if err != nil {
				return err
			}
			return u.UnmarshalCBOR(b)
		}
		rv = rv.Elem()
	}

	switch h.major {
	case unsignedIntMajorType:
		allocateInterface(rv, reflect.TypeOf(int64(0)))
		return d.decodePositive(rv, h)
	case negativeIntMajorType:
		allocateInterface(rv, reflect.TypeOf(int64(0)))
		return d.decodeNegative(rv, h)
	case byteStringMajorType:
		allocateInterface(rv, reflect.TypeOf([]byte(nil)))
		return d.decodeByteSlice(rv, h, false)
	case textStringMajorType:
		allocateInterface(rv, reflect.TypeOf(""))
		return d.decodeByteSlice(rv, h, true)
	case arrayMajorType:
		allocateInterface(rv, reflect.TypeOf([]any(nil)))
		return d.decodeArray(rv, h)
	case mapMajorType:
		allocateInterface(rv, reflect.TypeOf(map[any]any(nil)))
		return d.decodeMap(rv, h)
	case tagMajorType:
		allocateInterface(rv, reflect.TypeOf(Tag[RawBytes]{}))
		return d.decodeTag(rv, h)
	case simpleMajorType:
		return d.decodeSimple(rv, h)
	}
	panic("unreachable: major type is 3 bits")
}

func kindOf(rv reflect.Value) reflect.Kind {
	if rv.Kind() == reflect.Interface && !rv.IsNil() {
		return rv.Elem().Kind()
	}
	return rv.Kind()
}

func (d *Decoder) decodePositive(rv reflect.Value, h head) error {
	if rv.CanAddr() && rv.Type() == bigIntType {
		rv.Addr().Interface().(*big.Int).SetUint64(h.arg)
		return nil
	}

	kind := kindOf(rv)
	switch kind {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "unsigned integer"}
	}
	if overflows(h.arg, kind) {
		return &OutOfRangeError{Offset: d.src.offset, Type: rv.Type().String()}
	}

	newVal := reflect.ValueOf(h.arg)
	if rv.Kind() == reflect.Interface {
		newVal = newVal.Convert(rv.Elem().Type())
	}
	rv.Set(newVal.Convert(rv.Type()))
	return nil
}

func overflows(u64 uint64, kind reflect.Kind) bool {
	switch kind {
	case reflect.Uint:
		return u64 > math.MaxUint
	case reflect.Uint8:
		return u64 > math.MaxUint8
	case reflect.Uint16:
		return u64 > math.MaxUint16
	case reflect.Uint32:
		return u64 > math.MaxUint32
	case reflect.Uint64:
		return false
	case reflect.Int:
		return u64 > math.MaxInt
	case reflect.Int8:
		return u64 > math.MaxInt8
	case reflect.Int16:
		return u64 > math.MaxInt16
	case reflect.Int32:
		return u64 > math.MaxInt32
	case reflect.Int64:
		return u64 > math.MaxInt64
	}
	panic("programming error - invalid kind for overflow check")
}

func (d *Decoder) decodeNegative(rv reflect.Value, h head) error {
	if rv.CanAddr() && rv.Type() == bigIntType {
		bi := rv.Addr().Interface().(*big.Int)
		bi.SetUint64(h.arg)
		bi.Neg(bi.Add(bi, big.NewInt(1)))
		return nil
	}

	kind := kindOf(rv)
	switch kind {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
	default:
		return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "negative integer"}
	}
	// -1-h.arg must fit in int64 before we can even represent it as a Go int64.
	if h.arg > math.MaxInt64 {
		return &OutOfRangeError{Offset: d.src.offset, Type: rv.Type().String()}
	}
	i64 := -int64(h.arg) - 1
	if overflowsInt(i64, kind) {
		return &OutOfRangeError{Offset: d.src.offset, Type: rv.Type().String()}
	}

	newVal := reflect.ValueOf(i64)
	if rv.Kind() == reflect.Interface {
		newVal = newVal.Convert(rv.Elem().Type())
	}
	rv.Set(newVal.Convert(rv.Type()))
	return nil
}

func overflowsInt(i64 int64, kind reflect.Kind) bool {
	switch kind {
	case reflect.Int:
		return i64 < math.MinInt
	case reflect.Int8:
		return i64 < math.MinInt8
	case reflect.Int16:
		return i64 < math.MinInt16
	case reflect.Int32:
		return i64 < math.MinInt32
	case reflect.Int64:
		return false
	}
	panic("programming error - invalid kind for overflow check")
}

func (d *Decoder) decodeByteSlice(rv reflect.Value, h head, isText bool) error {
	bs, err := d.src.readStringContent(h)
	if err != nil {
		return err
	}
	if isText && !utf8.Valid(bs) {
		return &InvalidUTF8Error{Offset: d.src.offset}
	}

	_, isBytes := rv.Interface().([]byte)
	_, isString := rv.Interface().(string)
	switch {
	case isBytes || (rv.Kind() == reflect.Slice && rv.Type().Elem().Kind() == reflect.Uint8):
		rv.Set(reflect.ValueOf(bs))
		return nil
	case isString || rv.Kind() == reflect.String:
		rv.Set(reflect.ValueOf(string(bs)).Convert(rv.Type()))
		return nil
	}

	if rv.Kind() == reflect.Array && rv.Type().Elem().Kind() == reflect.Uint8 {
		if rv.Len() < len(bs) {
			return &OutOfRangeError{Offset: d.src.offset, Type: rv.Type().String()}
		}
		rbs := reflect.ValueOf(&bs).Elem()
		if grow := rv.Len() - rbs.Len(); grow > 0 {
			rbs.Grow(grow)
		}
		rbs.SetLen(rv.Len())
		rv.Set(rbs.Convert(rv.Type()))
		return nil
	}

	return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "string/byte string"}
}

func (d *Decoder) decodeArray(rv reflect.Value, h head) error {
	kind := kindOf(rv)
	switch kind {
	case reflect.Slice, reflect.Array:
		return d.decodeArrayToSlice(rv, h)
	default:
		return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "array"}
	}
}

func (d *Decoder) decodeArrayToSlice(rv reflect.Value, h head) error {
	slice := rv
	if slice.Kind() == reflect.Interface {
		slice = slice.Elem()
	}

	if h.indefinite {
		itemType := slice.Type().Elem()
		out := reflect.MakeSlice(slice.Type(), 0, 0)
		for i := 0; ; i++ {
			stop, err := d.src.checkStop()
			if err != nil {
				return err
			}
			if stop {
				break
			}
			newVal := reflect.New(itemType)
			if err := d.Decode(newVal.Interface()); err != nil {
				return fmt.Errorf("error decoding array item %d: %w", i, err)
			}
			out = reflect.Append(out, newVal.Elem())
		}
		return setSliceOrArray(rv, out)
	}

	length, err := checkLength(h.arg, d.src.offset)
	if err != nil {
		return err
	}

	var target reflect.Value
	switch slice.Kind() {
	case reflect.Slice:
		target = reflect.MakeSlice(slice.Type(), length, length)
	case reflect.Array:
		if rv.Len() < length {
			return &OutOfRangeError{Offset: d.src.offset, Type: rv.Type().String()}
		}
		target = rv
	default:
		return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "array"}
	}

	itemType := target.Type().Elem()
	for i := range length {
		newVal := reflect.New(itemType)
		if err := d.Decode(newVal.Interface()); err != nil {
			return fmt.Errorf("error decoding array item %d: %w", i, err)
		}
		target.Index(i).Set(newVal.Elem())
	}
	if slice.Kind() == reflect.Slice {
		return setSliceOrArray(rv, target)
	}
	return nil
}

func setSliceOrArray(rv, val reflect.Value) error {
	if rv.Kind() == reflect.Interface {
		rv.Set(val)
		return nil
	}
	rv.Set(val)
	return nil
}

func (d *Decoder) decodeMap(rv reflect.Value, h head) error {
	target := rv
	if target.Kind() == reflect.Interface && !target.IsNil() {
		target = target.Elem()
	}
	switch kindOf(target) {
	case reflect.Struct:
		return d.decodeMapToStruct(target, h)
	case reflect.Map:
		return d.decodeMapToMap(rv, target, h)
	default:
		return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "map"}
	}
}

func (d *Decoder) decodeMapToMap(rv, target reflect.Value, h head) error {
	if target.IsNil() {
		target.Set(reflect.MakeMap(target.Type()))
	}
	target.Clear()

	keyType := target.Type().Key()
	valType := target.Type().Elem()

	decodeOnePair := func() error {
		newKey := reflect.New(keyType)
		if err := d.Decode(newKey.Interface()); err != nil {
			return fmt.Errorf("error decoding map key: %w", err)
		}
		newVal := reflect.New(valType)
		if err := d.Decode(newVal.Interface()); err != nil {
			return fmt.Errorf("error decoding map value: %w", err)
		}

		actualKeyType := keyType
		if keyType.Kind() == reflect.Interface {
			if !newKey.Elem().Elem().IsValid() {
				return fmt.Errorf("cbor: map key cannot be null or undefined")
			}
			actualKeyType = newKey.Elem().Elem().Type()
		}
		if !actualKeyType.Comparable() {
			return fmt.Errorf("cbor: map key type (%s) not comparable", actualKeyType.String())
		}
		target.SetMapIndex(newKey.Elem(), newVal.Elem())
		return nil
	}

	if h.indefinite {
		for {
			stop, err := d.src.checkStop()
			if err != nil {
				return err
			}
			if stop {
				break
			}
			if err := decodeOnePair(); err != nil {
				return err
			}
		}
		return nil
	}

	pairs, err := checkLength(h.arg, d.src.offset)
	if err != nil {
		return err
	}
	for range pairs {
		if err := decodeOnePair(); err != nil {
			return err
		}
	}
	return nil
}

func (d *Decoder) decodeMapToStruct(rv reflect.Value, h head) error {
	fields := collectFields(rv.Type())
	seen := make([]bool, len(fields))

	decodeOnePair := func() error {
		var key any
		if err := d.Decode(&key); err != nil {
			return fmt.Errorf("error decoding struct field key: %w", err)
		}
		key = normalizeKey(key)

		idx := -1
		for i, f := range fields {
			if f.key == key {
				idx = i
				break
			}
		}
		if idx < 0 {
			if _, err := d.src.decodeRawItem(); err != nil {
				return err
			}
			if d.UnknownFields == ErrorOnUnknownFields {
				return &UnknownFieldError{Field: fmt.Sprintf("%v", key)}
			}
			return nil
		}

		seen[idx] = true
		f := fields[idx]
		newVal := reflect.New(fieldByIndex(rv, f.index).Type())
		if err := d.Decode(newVal.Interface()); err != nil {
			return fmt.Errorf("error decoding field %v: %w", key, err)
		}
		fieldByIndex(rv, f.index).Set(newVal.Elem())
		return nil
	}

	if h.indefinite {
		for {
			stop, err := d.src.checkStop()
			if err != nil {
				return err
			}
			if stop {
				break
			}
			if err := decodeOnePair(); err != nil {
				return err
			}
		}
	} else {
		pairs, err := checkLength(h.arg, d.src.offset)
		if err != nil {
			return err
		}
		for range pairs {
			if err := decodeOnePair(); err != nil {
				return err
			}
		}
	}

	for i, f := range fields {
		if !seen[i] && !f.omitEmpty {
			return &MissingFieldError{Field: fmt.Sprintf("%v", f.key)}
		}
	}
	return nil
}

func fieldByIndex(rv reflect.Value, idx []int) reflect.Value {
	v := rv
	for i, x := range idx {
		if i > 0 && v.Kind() == reflect.Pointer {
			if v.IsNil() {
				v.Set(reflect.New(v.Type().Elem()))
			}
			v = v.Elem()
		}
		v = v.Field(x)
	}
	return v
}

func normalizeKey(key any) any {
	switch k := key.(type) {
	case int64:
		return k
	case string:
		return k
	default:
		return key
	}
}

func (d *Decoder) decodeTag(rv reflect.Value, h head) error {
	if _, ok := rv.Interface().(TagData); !ok {
		return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "tag"}
	}

	var iface reflect.Value
	if rv.Kind() == reflect.Interface {
		newVal := reflect.New(rv.Elem().Type())
		iface, rv = rv, newVal.Elem()
	}

	rv.FieldByName("Num").SetUint(h.arg)
	valField := rv.FieldByName("Val")
	if err := d.Decode(valField.Addr().Interface()); err != nil {
		return fmt.Errorf("error decoding tag %d content: %w", h.arg, err)
	}

	if iface.IsValid() {
		iface.Set(rv)
	}
	return nil
}

func (d *Decoder) decodeSimple(rv reflect.Value, h head) error {
	switch h.info {
	case falseVal, trueVal:
		if kindOf(rv) != reflect.Bool {
			allocateInterface(rv, reflect.TypeOf(false))
			if kindOf(rv) != reflect.Bool {
				return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "bool"}
			}
		}
		rv.Set(reflect.ValueOf(h.info == trueVal))
		return nil

	case nullVal, undefinedVal:
		switch {
		case rv.Kind() == reflect.Pointer, rv.Kind() == reflect.Interface, rv.Kind() == reflect.Slice, rv.Kind() == reflect.Map:
			rv.SetZero()
		case rv.Kind() == reflect.Struct && rv.NumField() == 0:
			rv.SetZero()
		default:
			return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "null"}
		}
		return nil

	case halfFloat, singleFloat, doubleFloat:
		f, err := decodeFloatBits(h)
		if err != nil {
			return err
		}
		kind := kindOf(rv)
		switch kind {
		case reflect.Float32, reflect.Float64:
		default:
			allocateInterface(rv, reflect.TypeOf(float64(0)))
			kind = kindOf(rv)
			if kind != reflect.Float32 && kind != reflect.Float64 {
				return &TypeMismatchError{Offset: d.src.offset, Want: rv.Type().String(), Got: "float"}
			}
		}
		newVal := reflect.ValueOf(f)
		if rv.Kind() == reflect.Interface {
			newVal = newVal.Convert(rv.Elem().Type())
		}
		rv.Set(newVal.Convert(rv.Type()))
		return nil

	default:
		if h.info <= oneByteAdditional {
			// Extended simple values (32-255) surface as their raw ordinal.
			if h.arg < 32 {
				return &MalformedError{Offset: d.src.offset, Reason: "reserved simple value"}
			}
			allocateInterface(rv, reflect.TypeOf(int64(0)))
			return d.decodePositive(rv, h)
		}
		return &MalformedError{Offset: d.src.offset, Reason: "reserved simple value"}
	}
}

// Encoder encodes Go values to CBOR.
type Encoder struct {
	w io.Writer

	// MapKeySort determines the sort order of map and struct keys. If nil,
	// bytewise-lexical (RFC 8949 "core deterministic") order is used.
	MapKeySort func(indices []int, marshaledKeys [][]byte) func(i, j int) bool

	// CompactFloats, when true, encodes floats in the shortest of
	// half/single/double that round-trips the value exactly. When false
	// (the default), floats always encode as double precision.
	CompactFloats bool
}

// NewEncoder returns a new Encoder writing to w. w is not flushed.
func NewEncoder(w io.Writer) *Encoder {
	return &Encoder{w: w}
}

func (e *Encoder) write(b []byte) error {
	_, err := e.w.Write(b)
	if err != nil {
		return &IOError{Err: err}
	}
	return nil
}

//nolint:gocyclo // dispatch by reflected kind is naturally high complexity
func (e *Encoder) Encode(v any) error {
	defer runtime.KeepAlive(v)

	rv := reflect.ValueOf(v)
	for (rv.Kind() == reflect.Pointer && !rv.IsNil()) || rv.Kind() == reflect.Interface {
		if m, ok := rv.Interface().(Marshaler); ok {
			b, err := m.MarshalCBOR()
			if err != nil {
				return err
			}
			return e.write(b)
		}
		rv = rv.Elem()
	}
	if rv.IsValid() {
		v = rv.Interface()
	}

	if m, ok := v.(Marshaler); ok && !holdsNilPtr(v) {
		b, err := m.MarshalCBOR()
		if err != nil {
			return err
		}
		return e.write(b)
	}

	if bi, ok := v.(big.Int); ok {
		return e.encodeBigInt(&bi)
	}

	switch {
	case func() bool { _, ok := v.(TagData); return ok }():
		return e.encodeTag(v.(TagData))
	case rv.Kind() == reflect.Float32 || rv.Kind() == reflect.Float64:
		return e.encodeFloat(rv.Float())
	case rv.CanInt() || rv.CanUint():
		return e.encodeNumber(rv)
	case rv.Kind() == reflect.String,
		(rv.Kind() == reflect.Array || rv.Kind() == reflect.Slice) && rv.Type().Elem().Kind() == reflect.Uint8:
		return e.encodeTextOrBinary(rv)
	case rv.Kind() == reflect.Array || rv.Kind() == reflect.Slice:
		return e.encodeArray(rv.Len(), rv.Index)
	case rv.Kind() == reflect.Struct:
		return e.encodeStruct(rv)
	case rv.Kind() == reflect.Map:
		return e.encodeMap(rv.Len(), rv.MapKeys(), rv.MapIndex)
	case rv.Kind() == reflect.Bool:
		return e.encodeBool(rv.Bool())
	case (rv.Kind() == reflect.Pointer || rv.Kind() == reflect.Interface) && rv.IsNil():
		return e.encodeNull()
	case !rv.IsValid():
		return e.encodeNull()
	default:
		return ErrUnsupportedType{typeName: rv.Type().String()}
	}
}

func holdsNilPtr(v any) bool {
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Array, reflect.Chan, reflect.Slice:
		return rv.IsNil()
	default:
		return false
	}
}

func (e *Encoder) encodeNumber(rv reflect.Value) error {
	var u64 uint64
	var major byte
	switch {
	case rv.CanUint():
		u64, major = rv.Uint(), unsignedIntMajorType
	case rv.CanInt():
		if v := rv.Int(); v >= 0 {
			u64, major = uint64(v), unsignedIntMajorType
		} else {
			u64, major = uint64(-v)-1, negativeIntMajorType
		}
	default:
		return ErrUnsupportedType{typeName: rv.Type().String()}
	}
	return e.writeHead(major, u64)
}

func (e *Encoder) encodeBigInt(bi *big.Int) error {
	if bi.IsUint64() {
		return e.writeHead(unsignedIntMajorType, bi.Uint64())
	}
	if bi.Sign() < 0 {
		mag := new(big.Int).Neg(bi)
		mag.Sub(mag, big.NewInt(1))
		if mag.IsUint64() {
			return e.writeHead(negativeIntMajorType, mag.Uint64())
		}
	}
	return ErrUnsupportedType{typeName: "big.Int magnitude exceeds 64 bits (bignum tags 2/3 not supported)"}
}

func (e *Encoder) encodeTextOrBinary(rv reflect.Value) error {
	var b []byte
	major := byteStringMajorType
	switch rv.Kind() {
	case reflect.String:
		major = textStringMajorType
		b = []byte(rv.String())
	case reflect.Slice:
		b = rv.Bytes()
	case reflect.Array:
		if rv.CanAddr() {
			b = rv.Slice(0, rv.Len()).Bytes()
			break
		}
		b = make([]byte, rv.Len())
		reflect.Copy(reflect.ValueOf(b), rv)
	}
	if err := e.writeHead(major, uint64(len(b))); err != nil {
		return err
	}
	return e.write(b)
}

func (e *Encoder) encodeArray(size int, get func(int) reflect.Value) error {
	if size < 0 {
		panic("negative array length")
	}
	if err := e.writeHead(arrayMajorType, uint64(size)); err != nil {
		return err
	}
	for i := range size {
		if err := e.Encode(get(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func isEmpty(v reflect.Value) bool {
	return v.IsZero() ||
		(v.Kind() == reflect.Slice && v.Len() == 0) ||
		(v.Kind() == reflect.Map && v.Len() == 0) ||
		(v.Kind() == reflect.Array && v.Len() == 0)
}

// fieldSpec describes one struct field's contribution to a CBOR map.
type fieldSpec struct {
	index     []int
	key       any // string or int64
	omitEmpty bool
}

func collectFields(t reflect.Type) []fieldSpec {
	return collectFieldsRec(nil, t)
}

func collectFieldsRec(parents []int, t reflect.Type) []fieldSpec {
	var fields []fieldSpec
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		tag := f.Tag.Get("cbor")
		name, options, _ := strings.Cut(tag, ",")
		if name == "-" {
			continue
		}
		omitEmpty := slices.Contains(strings.Split(options, ","), "omitempty")

		if f.Anonymous {
			embedded := f.Type
			isPtr := embedded.Kind() == reflect.Pointer
			if isPtr {
				embedded = embedded.Elem()
			}
			if embedded.Kind() == reflect.Struct && name == "" {
				nested := collectFieldsRec(append(slices.Clone(parents), i), embedded)
				fields = append(fields, nested...)
				continue
			}
		}

		var key any
		switch {
		case name == "":
			key = f.Name
		default:
			if n, err := strconv.ParseInt(name, 10, 64); err == nil {
				key = n
			} else {
				key = name
			}
		}

		fields = append(fields, fieldSpec{
			index:     append(slices.Clone(parents), i),
			key:       key,
			omitEmpty: omitEmpty,
		})
	}
	return fields
}

func (e *Encoder) encodeStruct(rv reflect.Value) error {
	fields := collectFields(rv.Type())

	keys := make([]reflect.Value, 0, len(fields))
	vals := make([]reflect.Value, 0, len(fields))
	for _, f := range fields {
		fv := fieldByIndex(rv, f.index)
		if f.omitEmpty && isEmpty(fv) {
			continue
		}
		keys = append(keys, reflect.ValueOf(f.key))
		vals = append(vals, fv)
	}

	return e.encodeKeyedPairs(len(keys),
		func(i int) reflect.Value { return keys[i] },
		func(i int) reflect.Value { return vals[i] })
}

func (e *Encoder) encodeMap(length int, keys []reflect.Value, get func(k reflect.Value) reflect.Value) error {
	if length < 0 {
		panic("negative map length")
	}
	return e.encodeKeyedPairs(length,
		func(i int) reflect.Value { return keys[i] },
		func(i int) reflect.Value { return get(keys[i]) })
}

// encodeKeyedPairs writes a CBOR map head followed by n key/value pairs in
// the order given by e.MapKeySort, or RFC 8949 core deterministic (bytewise
// lexical) order when that is nil. It is shared by map and struct-as-map
// encoding so both honor the same key order.
func (e *Encoder) encodeKeyedPairs(n int, keyAt, valAt func(i int) reflect.Value) error {
	if err := e.writeHead(mapMajorType, uint64(n)); err != nil {
		return err
	}

	marshaledKeys := make([][]byte, n)
	var buf bytes.Buffer
	enc := NewEncoder(&buf)
	enc.MapKeySort = e.MapKeySort
	enc.CompactFloats = e.CompactFloats
	for i := range n {
		buf.Reset()
		if err := enc.Encode(keyAt(i).Interface()); err != nil {
			return err
		}
		marshaledKeys[i] = bytes.Clone(buf.Bytes())
	}

	lessFn := e.MapKeySort
	if lessFn == nil {
		lessFn = BytewiseLexicalSort
	}
	indices := make([]int, n)
	for i := range indices {
		indices[i] = i
	}
	sort.Slice(indices, lessFn(indices, marshaledKeys))

	for _, i := range indices {
		if err := e.Encode(RawBytes(marshaledKeys[i])); err != nil {
			return err
		}
		if err := e.Encode(valAt(i).Interface()); err != nil {
			return err
		}
	}
	return nil
}

func (e *Encoder) encodeTag(tag TagData) error {
	if err := e.writeHead(tagMajorType, tag.Number()); err != nil {
		return err
	}
	return e.Encode(tag.Value())
}

func (e *Encoder) encodeBool(truthy bool) error {
	b := simpleMajorType << 5
	if truthy {
		b |= trueVal
	} else {
		b |= falseVal
	}
	return e.write([]byte{b})
}

func (e *Encoder) encodeNull() error {
	return e.write([]byte{simpleMajorType<<5 | nullVal})
}

// BytewiseLexicalSort is the default map/struct key sort: RFC 8949 "core
// deterministic" bytewise lexical order over the encoded key bytes.
func BytewiseLexicalSort(indices []int, keys [][]byte) func(i, j int) bool {
	return func(i, j int) bool {
		return bytes.Compare(keys[indices[i]], keys[indices[j]]) < 0
	}
}
