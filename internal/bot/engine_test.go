package bot

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/constant"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/entity"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/pkg/logger"
	"github.com/sanalejo720/crm-bot-ngso-sub001/internal/repository/memory"
	"github.com/sanalejo720/crm-bot-ngso-sub001/pkg/store"
)

type fakeFlows struct {
	flows map[uuid.UUID]*entity.Flow
}

func (f *fakeFlows) LoadActiveFlow(_ context.Context, flowId uuid.UUID) (*entity.Flow, error) {
	flow, ok := f.flows[flowId]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrFlowNotFound, flowId)
	}
	return flow, nil
}

type sentMessage struct {
	text    string
	choice  bool
	options []ChoiceOption
}

type fakeMessenger struct {
	sent       []sentMessage
	failText   bool
	failChoice bool
}

func (m *fakeMessenger) SendText(_ context.Context, _ *entity.Chat, text string) (string, error) {
	if m.failText {
		return "", errors.New("transport down")
	}
	m.sent = append(m.sent, sentMessage{text: text})
	return fmt.Sprintf("wamid-%d", len(m.sent)), nil
}

func (m *fakeMessenger) SendChoice(_ context.Context, _ *entity.Chat, _, body string, options []ChoiceOption) (string, error) {
	if m.failChoice {
		return "", errors.New("interactive payload rejected")
	}
	m.sent = append(m.sent, sentMessage{text: body, choice: true, options: options})
	return fmt.Sprintf("wamid-%d", len(m.sent)), nil
}

type outboundRecord struct {
	content string
	failed  bool
	buttons []map[string]interface{}
}

type fakeChats struct {
	chat     *entity.Chat
	outbound []outboundRecord
	updates  int
}

func (c *fakeChats) GetChat(_ context.Context, chatId uuid.UUID) (*entity.Chat, error) {
	if c.chat == nil || c.chat.Id != chatId {
		return nil, nil
	}
	return c.chat, nil
}

func (c *fakeChats) UpdateChat(_ context.Context, chat *entity.Chat) error {
	c.chat = chat
	c.updates++
	return nil
}

func (c *fakeChats) RecordOutbound(_ context.Context, _ uuid.UUID, content, _ string, buttons []map[string]interface{}, failed bool) error {
	c.outbound = append(c.outbound, outboundRecord{content: content, failed: failed, buttons: buttons})
	return nil
}

type fakeDebtors struct {
	debtor  *entity.Debtor
	err     error
	lookups []string
	touched []uuid.UUID
}

func (d *fakeDebtors) FindByDocument(_ context.Context, _, documentNumber string) (*entity.Debtor, error) {
	d.lookups = append(d.lookups, documentNumber)
	if d.err != nil {
		return nil, d.err
	}
	return d.debtor, nil
}

func (d *fakeDebtors) TouchLastContacted(_ context.Context, debtorId uuid.UUID) error {
	d.touched = append(d.touched, debtorId)
	return nil
}

type fakeSignals struct {
	handoffs  int
	resolved  int
	contacted int
}

func (s *fakeSignals) HandOff(_ context.Context, _ *entity.Chat) error {
	s.handoffs++
	return nil
}

func (s *fakeSignals) Resolved(_ context.Context, _ *entity.Chat) error {
	s.resolved++
	return nil
}

func (s *fakeSignals) DebtorContacted(_ context.Context, _ *entity.Chat, _ uuid.UUID) error {
	s.contacted++
	return nil
}

type harness struct {
	engine    *Engine
	flowId    uuid.UUID
	chatId    uuid.UUID
	messenger *fakeMessenger
	chats     *fakeChats
	debtors   *fakeDebtors
	signals   *fakeSignals
}

func newHarness(t *testing.T, flow *entity.Flow) *harness {
	t.Helper()

	chatId := uuid.New()
	h := &harness{
		flowId:    flow.Id,
		chatId:    chatId,
		messenger: &fakeMessenger{},
		chats:     &fakeChats{chat: &entity.Chat{Id: chatId, Phone: "+573001112233", Status: constant.ChatStatusBot}},
		debtors:   &fakeDebtors{},
		signals:   &fakeSignals{},
	}
	h.engine = NewEngine(
		&fakeFlows{flows: map[uuid.UUID]*entity.Flow{flow.Id: flow}},
		memory.NewSessionRepository(),
		h.messenger,
		h.chats,
		h.debtors,
		h.signals,
		logger.NewNopLogger(),
		Options{},
	)
	return h
}

func newFlow(startNodeId string, nodes ...*entity.Node) *entity.Flow {
	flowId := uuid.New()
	for _, n := range nodes {
		n.FlowId = flowId
	}
	return &entity.Flow{
		Id:          flowId,
		Name:        "cobranza",
		Status:      constant.FlowStatusActive,
		StartNodeId: startNodeId,
		Nodes:       nodes,
	}
}

func node(id string, nodeType entity.NodeType, config, nextNodeId string) *entity.Node {
	return &entity.Node{
		Id:         id,
		Name:       id,
		Type:       nodeType,
		Config:     []byte(config),
		NextNodeId: nextNodeId,
	}
}

// Message node chained to an end node: starting the flow sends both
// messages and deletes the session.
func TestStartFlowAutoAdvancesToEnd(t *testing.T) {
	flow := newFlow("M1",
		node("M1", entity.NodeTypeMessage, `{"message":"Hola {{nombre}}"}`, "M2"),
		node("M2", entity.NodeTypeEnd, `{"message":"Hasta pronto"}`, ""),
	)
	flow.Variables = map[string]interface{}{"nombre": "Ana"}
	h := newHarness(t, flow)

	err := h.engine.StartFlow(context.Background(), h.chatId, h.flowId)
	require.NoError(t, err)

	require.Len(t, h.messenger.sent, 2)
	assert.Equal(t, "Hola Ana", h.messenger.sent[0].text)
	assert.Equal(t, "Hasta pronto", h.messenger.sent[1].text)

	_, found := h.engine.Sessions().Get(h.chatId)
	assert.False(t, found, "session must be deleted after the end node")
	assert.Equal(t, constant.ChatStatusResolved, h.chats.chat.Status)
	assert.Nil(t, h.chats.chat.BotContext)
	assert.Equal(t, 1, h.signals.resolved)
}

func TestStartFlowUnknownFlow(t *testing.T) {
	flow := newFlow("M1", node("M1", entity.NodeTypeEnd, `{}`, ""))
	h := newHarness(t, flow)

	err := h.engine.StartFlow(context.Background(), h.chatId, uuid.New())
	assert.ErrorIs(t, err, ErrFlowNotFound)
}

func TestStartFlowMissingStartNode(t *testing.T) {
	flow := newFlow("nope", node("M1", entity.NodeTypeEnd, `{}`, ""))
	h := newHarness(t, flow)

	err := h.engine.StartFlow(context.Background(), h.chatId, h.flowId)

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Equal(t, "nope", cfgErr.NodeId)
}

// Restarting a flow discards the previous session entirely.
func TestStartFlowReplacesExistingSession(t *testing.T) {
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, `{"message":"¿Tu nombre?","variableName":"nombre"}`, "I2"),
		node("I2", entity.NodeTypeInput, `{"message":"¿Tu correo?","variableName":"correo"}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	handled, err := h.engine.HandleIncoming(ctx, h.chatId, "Luis")
	require.NoError(t, err)
	require.True(t, handled)

	session, found := h.engine.Sessions().Get(h.chatId)
	require.True(t, found)
	assert.Equal(t, "Luis", session.Variables["nombre"])
	assert.Equal(t, "I2", session.CurrentNodeId)

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))

	session, found = h.engine.Sessions().Get(h.chatId)
	require.True(t, found)
	assert.Equal(t, "I1", session.CurrentNodeId)
	assert.NotContains(t, session.Variables, "nombre", "restart must discard captured variables")
}

func TestHandleIncomingWithoutSession(t *testing.T) {
	flow := newFlow("M1", node("M1", entity.NodeTypeEnd, `{}`, ""))
	h := newHarness(t, flow)

	handled, err := h.engine.HandleIncoming(context.Background(), h.chatId, "hola")
	require.NoError(t, err)
	assert.False(t, handled)
	assert.Empty(t, h.messenger.sent)
}

// Menu selection: numeric index beats every textual rule, exact label and
// substring still work, garbage leaves the cursor parked.
func TestMenuRouting(t *testing.T) {
	menuConfig := `{"message":"¿Deseas negociar tu deuda?","options":[` +
		`{"id":"opt_si","label":"Sí","nextNodeId":"Y"},` +
		`{"id":"opt_no","label":"No","nextNodeId":"N"}]}`

	tests := []struct {
		name     string
		input    string
		wantNode string
		routed   bool
	}{
		{name: "numeric index", input: "1", wantNode: "Y", routed: true},
		{name: "exact label case-insensitive", input: "no", wantNode: "N", routed: true},
		{name: "option id", input: "opt_si", wantNode: "Y", routed: true},
		{name: "label substring", input: "sí", wantNode: "Y", routed: true},
		{name: "out of range index", input: "9", routed: false},
		{name: "no match", input: "xyz", routed: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flow := newFlow("MU1",
				node("MU1", entity.NodeTypeMenu, menuConfig, ""),
				node("Y", entity.NodeTypeInput, `{"message":"Indica tu documento","variableName":"document_number"}`, ""),
				node("N", entity.NodeTypeEnd, `{"message":"Entendido"}`, ""),
			)
			h := newHarness(t, flow)
			ctx := context.Background()

			require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
			handled, err := h.engine.HandleIncoming(ctx, h.chatId, tt.input)
			require.NoError(t, err)
			require.True(t, handled)

			session, found := h.engine.Sessions().Get(h.chatId)
			if tt.wantNode == "N" {
				// End node: terminal, session gone.
				assert.False(t, found)
				return
			}
			require.True(t, found)
			if tt.routed {
				assert.Equal(t, tt.wantNode, session.CurrentNodeId)
				assert.Equal(t, tt.input, session.Variables[VarUserResponse])
			} else {
				assert.Equal(t, "MU1", session.CurrentNodeId, "unmatched input must not move the cursor")
				assert.NotContains(t, session.Variables, VarUserResponse)
			}
		})
	}
}

// Numeric input always wins over label text, even when a label is itself a
// number.
func TestMenuNumericBeatsLabelCollision(t *testing.T) {
	menuConfig := `{"message":"Elige","options":[` +
		`{"label":"2","nextNodeId":"A"},` +
		`{"label":"1","nextNodeId":"B"}]}`
	flow := newFlow("MU1",
		node("MU1", entity.NodeTypeMenu, menuConfig, ""),
		node("A", entity.NodeTypeInput, `{"message":"a","variableName":"x"}`, ""),
		node("B", entity.NodeTypeInput, `{"message":"b","variableName":"x"}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err := h.engine.HandleIncoming(ctx, h.chatId, "1")
	require.NoError(t, err)

	session, found := h.engine.Sessions().Get(h.chatId)
	require.True(t, found)
	assert.Equal(t, "A", session.CurrentNodeId, "input 1 must index options[0] regardless of labels")
}

// A number too large to index the options can still select one by id.
func TestMenuOutOfRangeNumberMatchesById(t *testing.T) {
	menuConfig := `{"message":"Elige","options":[` +
		`{"id":"opt_si","label":"Sí","nextNodeId":"A"},` +
		`{"id":"9","label":"Otra opción","nextNodeId":"B"}]}`
	flow := newFlow("MU2",
		node("MU2", entity.NodeTypeMenu, menuConfig, ""),
		node("A", entity.NodeTypeInput, `{"message":"a","variableName":"x"}`, ""),
		node("B", entity.NodeTypeInput, `{"message":"b","variableName":"x"}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err := h.engine.HandleIncoming(ctx, h.chatId, "9")
	require.NoError(t, err)

	session, found := h.engine.Sessions().Get(h.chatId)
	require.True(t, found)
	assert.Equal(t, "B", session.CurrentNodeId, "9 is out of range as an index but matches the option id")
}

// Required input with empty reply: error message sent, cursor and bag
// untouched.
func TestInputValidationRequired(t *testing.T) {
	inputConfig := `{"message":"Escribe tu documento","variableName":"document_number",` +
		`"validation":{"required":true,"errorMessage":"Necesitamos tu documento."}}`
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, inputConfig, "E"),
		node("E", entity.NodeTypeEnd, `{}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	varsBefore := len(mustSession(t, h).Variables)

	handled, err := h.engine.HandleIncoming(ctx, h.chatId, "   ")
	require.NoError(t, err)
	require.True(t, handled)

	session := mustSession(t, h)
	assert.Equal(t, "I1", session.CurrentNodeId)
	assert.Len(t, session.Variables, varsBefore, "failed validation must not touch the bag")
	require.NotEmpty(t, h.messenger.sent)
	assert.Equal(t, "Necesitamos tu documento.", h.messenger.sent[len(h.messenger.sent)-1].text)
}

func TestInputValidationPattern(t *testing.T) {
	inputConfig := `{"message":"Documento","variableName":"document_number",` +
		`"validation":{"pattern":"^[0-9]{6,12}$"}}`
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, inputConfig, "E"),
		node("E", entity.NodeTypeEnd, `{}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err := h.engine.HandleIncoming(ctx, h.chatId, "abc")
	require.NoError(t, err)

	session := mustSession(t, h)
	assert.Equal(t, "I1", session.CurrentNodeId)
	assert.Equal(t, defaultValidationMessage, h.messenger.sent[len(h.messenger.sent)-1].text)
}

// Captured document numbers trigger the debtor lookup and expose the record
// under the nested debtor object, sentinel-filled for absent fields.
func TestInputDocumentCaptureResolvesDebtor(t *testing.T) {
	debtorId := uuid.New()
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, `{"message":"Documento","variableName":"document_number"}`, "M2"),
		node("M2", entity.NodeTypeMessage, `{"message":"Hola {{debtor.name}}, debes {{debtor.total_debt}} ({{debtor.due_date}})"}`, ""),
	)
	h := newHarness(t, flow)
	h.debtors.debtor = &entity.Debtor{
		Id:             debtorId,
		DocumentNumber: "1020304050",
		FullName:       "Carlos Pérez",
		TotalDebt:      1523000,
	}
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err := h.engine.HandleIncoming(ctx, h.chatId, "1.020.304-050")
	require.NoError(t, err)

	require.Equal(t, []string{"1020304050"}, h.debtors.lookups, "document must be normalized before lookup")
	assert.Equal(t, []uuid.UUID{debtorId}, h.debtors.touched)
	assert.Equal(t, 1, h.signals.contacted)

	session := mustSession(t, h)
	assert.Equal(t, true, session.Variables[VarDebtorFound])
	assert.Equal(t, "1.020.304-050", session.Variables["document_number"], "raw input is stored as typed")

	last := h.messenger.sent[len(h.messenger.sent)-1].text
	assert.Equal(t, "Hola Carlos Pérez, debes 1,523,000 ("+Sentinel+")", last)
}

func TestInputDocumentCaptureLookupFailure(t *testing.T) {
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, `{"message":"Documento","variableName":"document_number"}`, "M2"),
		node("M2", entity.NodeTypeMessage, `{"message":"Gracias"}`, ""),
	)
	h := newHarness(t, flow)
	h.debtors.err = errors.New("db down")
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err := h.engine.HandleIncoming(ctx, h.chatId, "123456")
	require.NoError(t, err, "lookup failures never surface to the user")

	session := mustSession(t, h)
	assert.Equal(t, false, session.Variables[VarDebtorFound])
	assert.NotContains(t, session.Variables, VarDebtor)
	assert.Equal(t, "M2", session.CurrentNodeId, "the flow still advances")
}

// A value captured by an input node is readable through interpolation in a
// later node of the same session.
func TestVariableRoundTrip(t *testing.T) {
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, `{"message":"¿Tu nombre?","variableName":"nombre"}`, "M2"),
		node("M2", entity.NodeTypeMessage, `{"message":"Un gusto, {{nombre}}."}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err := h.engine.HandleIncoming(ctx, h.chatId, "María")
	require.NoError(t, err)

	last := h.messenger.sent[len(h.messenger.sent)-1].text
	assert.Equal(t, "Un gusto, María.", last)
}

// Condition routing driven by the previous answer, including trimming and
// case folding.
func TestConditionRoutesOnUserResponse(t *testing.T) {
	conditionConfig := `{"conditions":[{"operator":"equals","variable":"respuesta","value":"si","targetNodeId":"A"}]}`
	buildFlow := func() *entity.Flow {
		return newFlow("MU1",
			node("MU1", entity.NodeTypeInput, `{"message":"¿Deseas pagar hoy?","variableName":"respuesta"}`, "C1"),
			node("C1", entity.NodeTypeCondition, conditionConfig, "B"),
			node("A", entity.NodeTypeMessage, `{"message":"rama sí"}`, ""),
			node("B", entity.NodeTypeMessage, `{"message":"rama no"}`, ""),
		)
	}
	ctx := context.Background()

	h := newHarness(t, buildFlow())
	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err := h.engine.HandleIncoming(ctx, h.chatId, "SI ")
	require.NoError(t, err)
	assert.Equal(t, "rama sí", h.messenger.sent[len(h.messenger.sent)-1].text)

	h = newHarness(t, buildFlow())
	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))
	_, err = h.engine.HandleIncoming(ctx, h.chatId, "tal vez")
	require.NoError(t, err)
	assert.Equal(t, "rama no", h.messenger.sent[len(h.messenger.sent)-1].text)
}

// Message node with buttons parks on responseNodeId; the button press then
// routes through the condition there.
func TestMessageButtonsParkOnResponseNode(t *testing.T) {
	messageConfig := `{"message":"¿Eres el titular?","useButtons":true,` +
		`"buttons":[{"id":"btn_si","label":"Sí"},{"id":"btn_no","label":"No"}],` +
		`"responseNodeId":"C1"}`
	flow := newFlow("M1",
		node("M1", entity.NodeTypeMessage, messageConfig, ""),
		node("C1", entity.NodeTypeCondition, `{"conditions":[{"operator":"contains_ignore_case","value":"s","targetNodeId":"A"}],"elseNodeId":"B"}`, ""),
		node("A", entity.NodeTypeMessage, `{"message":"titular"}`, ""),
		node("B", entity.NodeTypeMessage, `{"message":"tercero"}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))

	session := mustSession(t, h)
	assert.Equal(t, "C1", session.CurrentNodeId)
	require.Len(t, h.messenger.sent, 1)
	assert.True(t, h.messenger.sent[0].choice)

	_, err := h.engine.HandleIncoming(ctx, h.chatId, "Sí")
	require.NoError(t, err)
	assert.Equal(t, "titular", h.messenger.sent[len(h.messenger.sent)-1].text)
}

// Transfer node: hand-off signal fires, chat goes active, session dies.
func TestTransferAgentHandsOff(t *testing.T) {
	flow := newFlow("T1",
		node("T1", entity.NodeTypeTransfer, `{}`, ""),
	)
	h := newHarness(t, flow)

	require.NoError(t, h.engine.StartFlow(context.Background(), h.chatId, h.flowId))

	assert.Equal(t, 1, h.signals.handoffs)
	assert.Equal(t, constant.ChatStatusActive, h.chats.chat.Status)
	_, found := h.engine.Sessions().Get(h.chatId)
	assert.False(t, found)
	require.Len(t, h.messenger.sent, 1)
	assert.Equal(t, defaultTransferMessage, h.messenger.sent[0].text)
}

// Transport failure on plain text: the attempt is recorded as failed and
// the engine carries on.
func TestTextDeliveryFailureIsRecorded(t *testing.T) {
	flow := newFlow("M1",
		node("M1", entity.NodeTypeMessage, `{"message":"Hola"}`, "M2"),
		node("M2", entity.NodeTypeEnd, `{"message":"Chao"}`, ""),
	)
	h := newHarness(t, flow)
	h.messenger.failText = true

	err := h.engine.StartFlow(context.Background(), h.chatId, h.flowId)
	require.NoError(t, err)

	require.Len(t, h.chats.outbound, 2)
	assert.True(t, h.chats.outbound[0].failed)
	assert.True(t, h.chats.outbound[1].failed)
	_, found := h.engine.Sessions().Get(h.chatId)
	assert.False(t, found, "delivery failures never stall the chain")
}

// Interactive failure falls back to a numbered text rendering.
func TestChoiceDeliveryFallsBackToNumberedText(t *testing.T) {
	menuConfig := `{"message":"Elige una opción","options":[` +
		`{"label":"Pagar","nextNodeId":"A"},{"label":"Asesor","nextNodeId":"B"}]}`
	flow := newFlow("MU1",
		node("MU1", entity.NodeTypeMenu, menuConfig, ""),
		node("A", entity.NodeTypeEnd, `{}`, ""),
		node("B", entity.NodeTypeEnd, `{}`, ""),
	)
	h := newHarness(t, flow)
	h.messenger.failChoice = true

	require.NoError(t, h.engine.StartFlow(context.Background(), h.chatId, h.flowId))

	require.Len(t, h.messenger.sent, 1)
	assert.False(t, h.messenger.sent[0].choice)
	assert.Equal(t, "Elige una opción\n1. Pagar\n2. Asesor", h.messenger.sent[0].text)
}

// A session runs to completion on the definition it was started with, even
// if the flow disappears from storage mid-conversation.
func TestRunningSessionSurvivesFlowDeactivation(t *testing.T) {
	flow := newFlow("I1",
		node("I1", entity.NodeTypeInput, `{"message":"Nombre","variableName":"nombre"}`, "M2"),
		node("M2", entity.NodeTypeEnd, `{"message":"Listo {{nombre}}"}`, ""),
	)
	h := newHarness(t, flow)
	ctx := context.Background()

	require.NoError(t, h.engine.StartFlow(ctx, h.chatId, h.flowId))

	// The flow is deactivated in storage while the session is live.
	h.engine.flows = &fakeFlows{flows: map[uuid.UUID]*entity.Flow{}}

	handled, err := h.engine.HandleIncoming(ctx, h.chatId, "Luis")
	require.NoError(t, err)
	require.True(t, handled)

	assert.Equal(t, "Listo Luis", h.messenger.sent[len(h.messenger.sent)-1].text)
	_, found := h.engine.Sessions().Get(h.chatId)
	assert.False(t, found)
}

func mustSession(t *testing.T, h *harness) *store.Session {
	t.Helper()
	session, found := h.engine.Sessions().Get(h.chatId)
	require.True(t, found, "expected a live session")
	return session
}
