package main

import "github.com/flowcsv/csvlex"

func lexerOptions() csvlex.Options {
	return csvlex.Options{
		Delimiter:     rootFlags.delimiter,
		Quotation:     rootFlags.quotation,
		MaxBufferSize: rootFlags.maxBufferSize,
		Source:        rootFlags.source,
	}
}

func assemblerOptions() csvlex.AssemblerOptions {
	var header []string
	if len(rootFlags.header) > 0 {
		header = rootFlags.header
	}
	return csvlex.AssemblerOptions{
		MaxFieldCount:  rootFlags.maxFieldCount,
		SkipEmptyLines: rootFlags.skipEmptyLines,
		Header:         header,
		Source:         rootFlags.source,
	}
}
