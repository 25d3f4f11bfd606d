package fuzztests

import "testing"

const maxSeedBytes = 64 << 10 // 64 KiB cap for the corpus

// addCorpusSeeds feeds the fuzzer a spread of well-formed and broken
// programs so mutation starts from every construct the grammar has.
func addCorpusSeeds(f *testing.F) {
	seeds := [][]byte{
		[]byte(""),
		[]byte(";"),
		[]byte("freq = 220;"),
		[]byte("x = 1 + 2 * 3;"),
		[]byte("x = -(1.5e-2 ^ 2);"),
		[]byte("a = 1;\nb = a < 2;\nc = b && a > 0;"),
		[]byte("[main t] t * 2;"),
		[]byte("[f a = -1, b = 2.5] a + b;"),
		[]byte("[env t] {\n\t+ 1;\n\t- 0.25 ? t > 0.5;\n}"),
		[]byte("[fact n] {\n\t+ 1 ? n < 1;\n\t+ n * fact(n - 1) ? n > 0.5;\n}"),
		[]byte("[f x] {\n\t[g y] y * 2;\n\t+ g(x);\n}"),
		[]byte("[f a b] 1;\nx = f(a = 1, b = 2);"),
		[]byte("[f a = 1] 1;\nx = f(a += 2);"),
		[]byte("// comment only\n"),
		[]byte("x = ((((1))));"),
		[]byte("x = 1 ~= 1.00001;"),
		// Broken inputs the parser must survive.
		[]byte("a = ;"),
		[]byte("a = 1"),
		[]byte("[f a"),
		[]byte("[f] { + 1;"),
		[]byte("[f a, a] a;"),
		[]byte("x = (1;"),
		[]byte("x = 1);"),
		[]byte("\x00\xff\xfe"),
	}
	for _, s := range seeds {
		f.Add(clampSeed(s))
	}
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
