package filing

import "testing"

const sampleSubmission = `<SEC-DOCUMENT>0001234567-24-000001.txt : 20240115
<SEC-HEADER>0001234567-24-000001.hdr.sgml : 20240115
</SEC-HEADER>
<DOCUMENT>
<TYPE>8-K
<SEQUENCE>1
<FILENAME>main.htm
<DESCRIPTION>CURRENT REPORT
<TEXT>
<html><body><p>Body one.</p></body></html>
</TEXT>
</DOCUMENT>
<DOCUMENT>
<TYPE>EX-99.1
<SEQUENCE>2
<FILENAME>pressrelease.htm
<TEXT>
<html><body><p>Body two.</p></body></html>
</TEXT>
</DOCUMENT>
<DOCUMENT>
<TYPE>GRAPHIC
<SEQUENCE>3
<TEXT>
binary payload
</TEXT>
</DOCUMENT>
</SEC-DOCUMENT>
`

func TestSplit(t *testing.T) {
	docs := Split(sampleSubmission)
	if len(docs) != 3 {
		t.Fatalf("Split returned %d documents, want 3", len(docs))
	}

	first := docs[0]
	if first.Type != "8-K" {
		t.Errorf("first document type = %q, want %q", first.Type, "8-K")
	}
	if first.Sequence != "1" {
		t.Errorf("first document sequence = %q, want %q", first.Sequence, "1")
	}
	if first.Filename != "main.htm" {
		t.Errorf("first document filename = %q, want %q", first.Filename, "main.htm")
	}
	if first.Description != "CURRENT REPORT" {
		t.Errorf("first document description = %q, want %q", first.Description, "CURRENT REPORT")
	}
	if first.Text != "<html><body><p>Body one.</p></body></html>" {
		t.Errorf("first document text = %q", first.Text)
	}

	if docs[1].Type != "EX-99.1" || docs[1].Description != "" {
		t.Errorf("second document = %+v", docs[1])
	}

	// A block missing <FILENAME> is kept with the field empty.
	if docs[2].Filename != "" {
		t.Errorf("third document filename = %q, want empty", docs[2].Filename)
	}
	if docs[2].Text != "binary payload" {
		t.Errorf("third document text = %q", docs[2].Text)
	}
}

func TestSplit_NoDocuments(t *testing.T) {
	if docs := Split("<SEC-HEADER>only a header</SEC-HEADER>"); len(docs) != 0 {
		t.Fatalf("Split returned %d documents, want 0", len(docs))
	}
}

func TestPrimaryDocument(t *testing.T) {
	docs := Split(sampleSubmission)

	doc, ok := PrimaryDocument(docs, "8-k", ".htm")
	if !ok {
		t.Fatal("PrimaryDocument did not find the main document")
	}
	if doc.Filename != "main.htm" {
		t.Errorf("primary document filename = %q, want %q", doc.Filename, "main.htm")
	}

	if _, ok := PrimaryDocument(docs, "8-k", ".xml"); ok {
		t.Error("PrimaryDocument found an .xml document that does not exist")
	}
	if _, ok := PrimaryDocument(docs, "10-k", ".htm"); ok {
		t.Error("PrimaryDocument matched the wrong form type")
	}
}
