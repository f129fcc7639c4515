package maplist

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/samber/lo"
)

// Which list a map is submitted to.
type SubmissionType string

const (
	SUBMIT_LIST    SubmissionType = "list"
	SUBMIT_EXPERTS SubmissionType = "experts"
)

// The placements a submitter can propose, per list. The index in its list is what the API expects.
var ProposedPlacements = map[SubmissionType][]string{
	SUBMIT_LIST: {
		"Maplist / Top 3",
		"Maplist / Top 10",
		"Maplist / #11 ~ 20",
		"Maplist / #21 ~ 30",
		"Maplist / #31 ~ 40",
		"Maplist / #41 ~ 50",
	},
	SUBMIT_EXPERTS: {
		"Experts / Casual Expert",
		"Experts / Casual-Medium",
		"Experts / Medium Expert",
		"Experts / Medium-Hard",
		"Experts / Hard Expert",
		"Experts / Hard-True",
		"Experts / True Expert",
	},
}

// Every proposable placement, Maplist first.
func AllPlacements() []string {
	return append(append([]string{}, ProposedPlacements[SUBMIT_LIST]...), ProposedPlacements[SUBMIT_EXPERTS]...)
}

// Resolves a label from [ProposedPlacements] to its list and index.
func ParsePlacement(label string) (SubmissionType, int, error) {
	mtype := SUBMIT_EXPERTS
	if strings.HasPrefix(label, "Maplist / ") {
		mtype = SUBMIT_LIST
	}

	idx := lo.IndexOf(ProposedPlacements[mtype], label)
	if idx < 0 {
		return "", 0, fmt.Errorf("unknown placement %q", label)
	}

	return mtype, idx, nil
}

// An image attached as proof of a submission.
type Proof struct {
	Filename    string
	ContentType string
	Body        io.Reader
}

type MapSubmission struct {
	User     DiscordUser    `json:"user"`
	Code     string         `json:"code"`
	Notes    string         `json:"notes,omitempty"`
	Type     SubmissionType `json:"type"`
	Proposed int            `json:"proposed"`
}

// Posts a map submission as multipart form data: the JSON data (which is what gets signed) and the proof image.
// A 400 comes back as a [*BadRequestError] describing the offending fields.
func (c *Client) SubmitMap(ctx context.Context, sub MapSubmission, proof Proof) error {
	data, err := sonic.Marshal(sub)
	if err != nil {
		return err
	}

	var body bytes.Buffer
	form := multipart.NewWriter(&body)

	if err := form.WriteField("data", string(data)); err != nil {
		return err
	}

	part, err := form.CreatePart(proofHeader(proof))
	if err != nil {
		return err
	}
	if _, err := io.Copy(part, proof.Body); err != nil {
		return fmt.Errorf("reading proof image: %w", err)
	}

	if err := form.Close(); err != nil {
		return err
	}

	header := c.signer.Header(data)
	header.Set("Content-Type", form.FormDataContentType())

	_, err = c.req.Send(ctx, http.MethodPost, c.url(ENDPOINT_SUBMIT_MAP, nil), &body, header)
	return classify(err, "")
}

func proofHeader(proof Proof) textproto.MIMEHeader {
	return textproto.MIMEHeader{
		"Content-Disposition": {fmt.Sprintf(`form-data; name="proof_completion"; filename=%q`, proof.Filename)},
		"Content-Type":        {proof.ContentType},
	}
}
