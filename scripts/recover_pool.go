package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"strings"

	bip39 "github.com/tyler-smith/go-bip39"

	"pump-swarm-bot-go/internal/wallet"
)

// Re-derives the wallet pool from a saved recovery mnemonic and prints the
// keypairs. Useful when wallets.json was overwritten but mnemonic.txt (or a
// written-down phrase) survived.
//
// Usage:
//
//	go run scripts/recover_pool.go -count 10 -mnemonic-file data/mnemonic.txt
//	go run scripts/recover_pool.go -count 10 -mnemonic "word1 word2 ..."
func main() {
	count := flag.Int("count", 10, "number of wallets to derive")
	mnemonic := flag.String("mnemonic", "", "recovery mnemonic (24 words)")
	mnemonicFile := flag.String("mnemonic-file", "data/mnemonic.txt", "path to the saved mnemonic")
	showPrivate := flag.Bool("private", false, "print private keys as well")
	flag.Parse()

	phrase := *mnemonic
	if phrase == "" {
		data, err := os.ReadFile(*mnemonicFile)
		if err != nil {
			log.Fatalf("failed to read mnemonic file %s: %v", *mnemonicFile, err)
		}
		phrase = strings.TrimSpace(string(data))
	}

	if !bip39.IsMnemonicValid(phrase) {
		log.Fatal("mnemonic failed checksum validation")
	}

	seed := bip39.NewSeed(phrase, "")
	for i := 0; i < *count; i++ {
		w, err := wallet.FromSeed(seed, uint32(i))
		if err != nil {
			log.Fatalf("failed to derive wallet %d: %v", i, err)
		}
		if *showPrivate {
			fmt.Printf("%3d  %s  %s\n", i, w.PublicKeyString(), w.PrivateKeyBase58())
		} else {
			fmt.Printf("%3d  %s\n", i, w.PublicKeyString())
		}
	}
}
