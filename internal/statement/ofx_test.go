package statement

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/subscout/subscout/internal/model"
)

const sampleOFX = `OFXHEADER:100
DATA:OFXSGML
VERSION:102
SECURITY:NONE
ENCODING:USASCII
CHARSET:1252
COMPRESSION:NONE
OLDFILEUID:NONE
NEWFILEUID:NONE

<OFX>
<SIGNONMSGSRSV1>
<SONRS>
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<DTSERVER>20250801120000
<LANGUAGE>ENG
</SONRS>
</SIGNONMSGSRSV1>
<BANKMSGSRSV1>
<STMTTRNRS>
<TRNUID>1
<STATUS>
<CODE>0
<SEVERITY>INFO
</STATUS>
<STMTRS>
<CURDEF>USD
<BANKACCTFROM>
<BANKID>123456789
<ACCTID>9876543210
<ACCTTYPE>CHECKING
</BANKACCTFROM>
<BANKTRANLIST>
<DTSTART>20250701
<DTEND>20250731
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250702
<TRNAMT>-15.99
<FITID>20250702001
<NAME>NETFLIX.COM
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250715
<TRNAMT>-9.99
<FITID>20250715001
<NAME>DEBIT
<MEMO>SPOTIFY USA
</STMTTRN>
<STMTTRN>
<TRNTYPE>CREDIT
<DTPOSTED>20250720
<TRNAMT>250.00
<FITID>20250720001
<NAME>PAYROLL DEPOSIT
</STMTTRN>
<STMTTRN>
<TRNTYPE>DEBIT
<DTPOSTED>20250702
<TRNAMT>-15.99
<FITID>20250702999
<NAME>NETFLIX.COM
</STMTTRN>
</BANKTRANLIST>
<LEDGERBAL>
<BALAMT>1000.00
<DTASOF>20250731
</LEDGERBAL>
</STMTRS>
</STMTTRNRS>
</BANKMSGSRSV1>
</OFX>
`

func TestOFXParseFile(t *testing.T) {
	parser := NewOFXParser()
	txns, err := parser.ParseFile(context.Background(), strings.NewReader(sampleOFX))
	require.NoError(t, err)

	// The fourth entry duplicates the first by content and is dropped.
	require.Len(t, txns, 3)

	assert.Equal(t, "NETFLIX.COM", txns[0].Description)
	assert.InDelta(t, -15.99, txns[0].Amount, 1e-9)
	assert.Equal(t, model.TypeDebit, txns[0].Type)
	assert.Equal(t, "9876543210", txns[0].AccountID)
	assert.Equal(t, "20250702001", txns[0].ID)

	// Generic NAME falls back to the memo.
	assert.Equal(t, "SPOTIFY USA", txns[1].Description)

	assert.Equal(t, "PAYROLL DEPOSIT", txns[2].Description)
	assert.Equal(t, model.TypeCredit, txns[2].Type)
	assert.InDelta(t, 250.00, txns[2].Amount, 1e-9)
}

func TestOFXPreprocess(t *testing.T) {
	parser := NewOFXParser()

	fixed := parser.preprocessOFX("  \n<OFX>\n<SEVERITY>INFO</SEVERITY>\n<DTSERVER")
	assert.True(t, strings.HasPrefix(fixed, "<OFX>"))
	assert.Contains(t, fixed, "<SEVERITY>INFO</SEVERITY>")
	assert.Contains(t, fixed, "<DTSERVER>")
}

func TestOFXParseFileGarbage(t *testing.T) {
	parser := NewOFXParser()
	_, err := parser.ParseFile(context.Background(), strings.NewReader("not an ofx file"))
	assert.Error(t, err)
}
