// Command nandtest stress tests flash images and keeps their run history.
//
// Usage:
//
//	nandtest image create nand.img --page-size 2048 --oob-size 64 --erase-size 131072 --size 16777216
//	nandtest run nand.img --write --seed 1 --iterations 4 --markbad
//	nandtest run nand.img --read --record history.sqlite3
//	nandtest history history.sqlite3
//
// Defaults for most flags can be set through NANDTEST_* environment
// variables, also read from the file given by --env-file (default .env).
package main

func main() {
	Execute()
}
