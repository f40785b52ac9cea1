// Package normalizer turns the JSON documents of one export declaration into
// row batches for the relational store. The transformation is pure: no I/O,
// no clock, no global state, so the same payloads always produce the same
// rows.
package normalizer

import (
	"fmt"

	"github.com/N1XSS/controle-siscomex-test/internal/domain"
	"github.com/N1XSS/controle-siscomex-test/internal/store/schema"
)

// RowSet is the normalized output for one DUE: one ordered slice per
// destination table. Every row carries the DUE number; child-of-item rows
// carry the item index too.
type RowSet struct {
	Principal schema.DuePrincipal

	Eventos        []schema.DueEvento
	SituacoesCarga []schema.DueSituacaoCarga
	Solicitacoes   []schema.DueSolicitacao

	Itens                       []schema.DueItem
	ItemEnquadramentos          []schema.DueItemEnquadramento
	ItemPaisesDestino           []schema.DueItemPaisDestino
	ItemTratamentosAdmin        []schema.DueItemTratamentoAdministrativo
	ItemTratamentosAdminOrgaos  []schema.DueItemTratamentoAdministrativoOrgao
	ItemNotasRemessa            []schema.DueItemNotaRemessa
	ItemNotasFiscaisExportacao  []schema.DueItemNotaFiscalExportacao
	ItemNotasComplementares     []schema.DueItemNotaComplementar
	ItemAtributos               []schema.DueItemAtributo
	ItemDocumentosImportacao    []schema.DueItemDocumentoImportacao
	ItemDocumentosTransformacao []schema.DueItemDocumentoTransformacao
	ItemCalculoTratamentos      []schema.DueItemCalculoTributarioTratamento
	ItemCalculoQuadros          []schema.DueItemCalculoTributarioQuadro

	DeclaracaoCompensacoes  []schema.DueDeclaracaoCompensacao
	DeclaracaoRecolhimentos []schema.DueDeclaracaoRecolhimento
	DeclaracaoContestacoes  []schema.DueDeclaracaoContestacao

	AtosSuspensao     []schema.DueAtoConcessorioSuspensao
	AtosIsencao       []schema.DueAtoConcessorioIsencao
	ExigenciasFiscais []schema.DueExigenciaFiscal
}

// DueNumber returns the declaration number the set belongs to.
func (r *RowSet) DueNumber() domain.DueNumber {
	return domain.DueNumber(r.Principal.Numero)
}

// Normalize fans one DUE payload plus its optional auxiliary documents out
// into row batches. The auxiliary slices may be nil when the corresponding
// fetch was disabled or returned nothing.
func Normalize(due *DuePayload, suspActs, exemptActs []ConcessionaryAct, fiscalReqs []FiscalRequirement) (*RowSet, error) {
	if due == nil {
		return nil, fmt.Errorf("%w: nil payload", domain.ErrNormalizer)
	}
	if due.Numero == "" {
		return nil, fmt.Errorf("%w: payload carries no declaration number", domain.ErrNormalizer)
	}

	out := &RowSet{Principal: principalRow(due)}

	for _, ev := range due.EventosDoHistorico {
		out.Eventos = append(out.Eventos, schema.DueEvento{
			NumeroDue:             due.Numero,
			DataEHoraDoEvento:     ev.DataEHoraDoEvento.Ptr(),
			Evento:                nullStr(ev.Evento),
			Responsavel:           nullStr(ev.Responsavel),
			InformacoesAdicionais: nullStr(ev.InformacoesAdicionais),
		})
	}

	for _, item := range due.Itens {
		normalizeItem(out, due.Numero, item)
	}

	for seq, sit := range due.SituacoesDaCarga {
		out.SituacoesCarga = append(out.SituacoesCarga, schema.DueSituacaoCarga{
			NumeroDue:    due.Numero,
			Sequencial:   seq,
			Codigo:       sit.Codigo,
			Descricao:    nullStr(sit.Descricao),
			CargaOperada: sit.CargaOperada,
		})
	}

	for _, sol := range due.Solicitacoes {
		out.Solicitacoes = append(out.Solicitacoes, schema.DueSolicitacao{
			NumeroDue:                   due.Numero,
			TipoSolicitacao:             nullStr(sol.TipoSolicitacao),
			DataDaSolicitacao:           sol.DataDaSolicitacao.Ptr(),
			UsuarioResponsavel:          nullStr(sol.UsuarioResponsavel),
			CodigoDoStatusDaSolicitacao: sol.CodigoDoStatusDaSolicitacao,
			StatusDaSolicitacao:         nullStr(sol.StatusDaSolicitacao),
			DataDeApreciacao:            sol.DataDeApreciacao.Ptr(),
			Motivo:                      nullStr(sol.Motivo),
		})
	}

	for _, comp := range due.DeclaracaoTributaria.Compensacoes {
		out.DeclaracaoCompensacoes = append(out.DeclaracaoCompensacoes, schema.DueDeclaracaoCompensacao{
			NumeroDue:          due.Numero,
			DataDoRegistro:     comp.DataDoRegistro.Ptr(),
			NumeroDaDeclaracao: nullStr(comp.NumeroDaDeclaracao),
			ValorCompensado:    comp.ValorCompensado,
		})
	}

	for _, rec := range due.DeclaracaoTributaria.Recolhimentos {
		out.DeclaracaoRecolhimentos = append(out.DeclaracaoRecolhimentos, schema.DueDeclaracaoRecolhimento{
			NumeroDue:               due.Numero,
			DataDoPagamento:         rec.DataDoPagamento.Ptr(),
			DataDoRegistro:          rec.DataDoRegistro.Ptr(),
			ValorDaMulta:            rec.ValorDaMulta,
			ValorDoImpostoRecolhido: rec.ValorDoImpostoRecolhido,
			ValorDosJurosMora:       rec.ValorDoJurosMora,
		})
	}

	for idx, cont := range due.DeclaracaoTributaria.Contestacoes {
		out.DeclaracaoContestacoes = append(out.DeclaracaoContestacoes, schema.DueDeclaracaoContestacao{
			NumeroDue:        due.Numero,
			Indice:           idx,
			DataDoRegistro:   cont.DataDoRegistro.Ptr(),
			Motivo:           nullStr(cont.Motivo),
			Status:           nullStr(cont.Status),
			DataDeApreciacao: cont.DataDeApreciacao.Ptr(),
			Observacao:       nullStr(cont.Observacao),
		})
	}

	for _, act := range suspActs {
		out.AtosSuspensao = append(out.AtosSuspensao, schema.DueAtoConcessorioSuspensao{
			ConcessionaryActColumns: actColumns(due.Numero, act),
		})
	}

	for _, act := range exemptActs {
		out.AtosIsencao = append(out.AtosIsencao, schema.DueAtoConcessorioIsencao{
			ConcessionaryActColumns: actColumns(due.Numero, act),
		})
	}

	for _, req := range fiscalReqs {
		out.ExigenciasFiscais = append(out.ExigenciasFiscais, schema.DueExigenciaFiscal{
			NumeroDue:        due.Numero,
			NumeroExigencia:  nullStr(req.Numero),
			TipoExigencia:    nullStr(req.Tipo),
			DataCriacao:      req.DataCriacao.Ptr(),
			DataLimite:       req.DataLimite.Ptr(),
			Status:           nullStr(req.Status),
			OrgaoResponsavel: nullStr(req.OrgaoResponsavel),
			Descricao:        nullStr(req.Descricao),
			ValorExigido:     req.ValorExigido,
			ValorPago:        req.ValorPago,
			Observacoes:      nullStr(req.Observacoes),
		})
	}

	return out, nil
}

func principalRow(due *DuePayload) schema.DuePrincipal {
	return schema.DuePrincipal{
		Numero:                             due.Numero,
		ChaveDeAcesso:                      nullStr(due.ChaveDeAcesso),
		DataDeRegistro:                     due.DataDeRegistro.Ptr(),
		Bloqueio:                           due.Bloqueio,
		Canal:                              nullStr(due.Canal),
		EmbarqueEmRecintoAlfandegado:       due.EmbarqueEmRecintoAlfandegado,
		DespachoEmRecintoAlfandegado:       due.DespachoEmRecintoAlfandegado,
		FormaDeExportacao:                  nullStr(due.FormaDeExportacao),
		ImpedidoDeEmbarque:                 due.ImpedidoDeEmbarque,
		InformacoesComplementares:          nullStr(due.InformacoesComplementares),
		Ruc:                                nullStr(due.Ruc),
		Situacao:                           nullStr(due.Situacao),
		SituacaoDoTratamentoAdministrativo: nullStr(due.SituacaoDoTratamentoAdministrativo),
		Tipo:                               nullStr(due.Tipo),
		TratamentoPrioritario:              due.TratamentoPrioritario,
		ResponsavelPeloACD:                 nullStr(due.ResponsavelPeloACD),
		DespachoEmRecintoDomiciliar:        due.DespachoEmRecintoDomiciliar,
		DataDeCriacao:                      due.DataDeCriacao.Ptr(),
		DataDoCCE:                          due.DataDoCCE.Ptr(),
		DataDoDesembaraco:                  due.DataDoDesembaraco.Ptr(),
		DataDoAcd:                          due.DataDoAcd.Ptr(),
		DataDaAverbacao:                    due.DataDaAverbacao.Ptr(),
		ValorTotalMercadoria:               due.ValorTotalMercadoria,
		InclusaoNotaFiscal:                 due.InclusaoNotaFiscal,
		ExigenciaAtiva:                     due.ExigenciaAtiva,
		Consorciada:                        due.Consorciada,
		Dat:                                due.Dat,
		Oea:                                due.Oea,
		DeclaranteNumeroDoDocumento:        nullStr(due.Declarante.NumeroDoDocumento),
		DeclaranteTipoDoDocumento:          nullStr(due.Declarante.TipoDoDocumento),
		DeclaranteNome:                     nullStr(due.Declarante.Nome),
		DeclaranteEstrangeiro:              due.Declarante.Estrangeiro,
		DeclaranteNacionalidadeCodigo:      due.Declarante.Nacionalidade.Codigo,
		DeclaranteNacionalidadeNome:        nullStr(due.Declarante.Nacionalidade.Nome),
		DeclaranteNacionalidadeNomeRes:     nullStr(due.Declarante.Nacionalidade.NomeResumido),
		MoedaCodigo:                        due.Moeda.Codigo,
		PaisImportadorCodigo:               due.PaisImportador.Codigo,
		RecintoAduaneiroDeDespachoCodigo:   nullStr(due.RecintoAduaneiroDeDespacho.Codigo),
		RecintoAduaneiroDeEmbarqueCodigo:   nullStr(due.RecintoAduaneiroDeEmbarque.Codigo),
		UnidadeLocalDeDespachoCodigo:       nullStr(due.UnidadeLocalDeDespacho.Codigo),
		UnidadeLocalDeEmbarqueCodigo:       nullStr(due.UnidadeLocalDeEmbarque.Codigo),
		DeclaracaoTributariaDivergente:     due.DeclaracaoTributaria.Divergente,
	}
}

func normalizeItem(out *RowSet, numeroDue string, item Item) {
	itemID := fmt.Sprintf("%s_%d", numeroDue, item.Numero)

	out.Itens = append(out.Itens, schema.DueItem{
		ID:                                      itemID,
		NumeroDue:                               numeroDue,
		NumeroItem:                              item.Numero,
		QuantidadeNaUnidadeEstatistica:          item.QuantidadeNaUnidadeEstatistica,
		PesoLiquidoTotal:                        item.PesoLiquidoTotal,
		ValorDaMercadoriaNaCondicaoDeVenda:      item.ValorDaMercadoriaNaCondicaoDeVenda,
		ValorDaMercadoriaNoLocalDeEmbarque:      item.ValorDaMercadoriaNoLocalDeEmbarque,
		ValorDaMercadoriaNoLocalDeEmbarqueReais: item.ValorDaMercadoriaNoLocalDeEmbarqueReais,
		ValorDaMercadoriaNaCondicaoDeVendaReais: item.ValorDaMercadoriaNaCondicaoDeVendaReais,
		DataDeConversao:                         item.DataDeConversao.Ptr(),
		DescricaoDaMercadoria:                   nullStr(item.DescricaoDaMercadoria),
		UnidadeComercializada:                   nullStr(item.UnidadeComercializada),
		NomeImportador:                          nullStr(item.NomeImportador),
		EnderecoImportador:                      nullStr(item.EnderecoImportador),
		ValorTotalCalculadoItem:                 item.ValorTotalCalculadoItem,
		QuantidadeNaUnidadeComercializada:       item.QuantidadeNaUnidadeComercializada,
		NcmCodigo:                               nullStr(item.Ncm.Codigo),
		NcmDescricao:                            nullStr(item.Ncm.Descricao),
		NcmUnidadeMedidaEstatistica:             nullStr(item.Ncm.UnidadeMedidaEstatistica),
		ExportadorNumeroDoDocumento:             nullStr(item.Exportador.NumeroDoDocumento),
		ExportadorTipoDoDocumento:               nullStr(item.Exportador.TipoDoDocumento),
		CodigoCondicaoVenda:                     nullStr(item.CodigoCondicaoVenda.Codigo),
		ExportacaoTemporaria:                    item.ExportacaoTemporaria.Temporaria,
	})

	for _, enq := range item.ListaDeEnquadramentos {
		out.ItemEnquadramentos = append(out.ItemEnquadramentos, schema.DueItemEnquadramento{
			DueItemID:    itemID,
			NumeroDue:    numeroDue,
			NumeroItem:   item.Numero,
			Codigo:       enq.Codigo,
			DataRegistro: enq.DataRegistro.Ptr(),
			Descricao:    nullStr(enq.Descricao),
			Grupo:        enq.Grupo,
			Tipo:         enq.Tipo,
		})
	}

	for _, pais := range item.ListaPaisDestino {
		out.ItemPaisesDestino = append(out.ItemPaisesDestino, schema.DueItemPaisDestino{
			DueItemID:         itemID,
			NumeroDue:         numeroDue,
			NumeroItem:        item.Numero,
			CodigoPaisDestino: pais.Codigo,
		})
	}

	for idx, trat := range item.TratamentosAdministrativos {
		tratID := fmt.Sprintf("%s_%d", itemID, idx)
		out.ItemTratamentosAdmin = append(out.ItemTratamentosAdmin, schema.DueItemTratamentoAdministrativo{
			ID:                   tratID,
			DueItemID:            itemID,
			NumeroDue:            numeroDue,
			NumeroItem:           item.Numero,
			Mensagem:             nullStr(trat.Mensagem),
			ImpeditivoDeEmbarque: trat.ImpeditivoDeEmbarque,
			CodigoLPCO:           nullStr(trat.CodigoLPCO),
			Situacao:             nullStr(trat.Situacao),
		})

		for _, orgao := range trat.Orgaos {
			out.ItemTratamentosAdminOrgaos = append(out.ItemTratamentosAdminOrgaos, schema.DueItemTratamentoAdministrativoOrgao{
				TratamentoAdministrativoID: tratID,
				DueItemID:                  itemID,
				NumeroDue:                  numeroDue,
				CodigoOrgao:                nullStr(orgao),
			})
		}
	}

	for _, nota := range item.ItensDaNotaDeRemessa {
		out.ItemNotasRemessa = append(out.ItemNotasRemessa, schema.DueItemNotaRemessa{
			DueItemID:                   itemID,
			NumeroDue:                   numeroDue,
			NumeroItem:                  item.Numero,
			NumeroDoItem:                nota.NumeroDoItem,
			ChaveDeAcesso:               nullStr(nota.NotaFiscal.ChaveDeAcesso),
			Cfop:                        nota.Cfop,
			CodigoDoProduto:             nullStr(nota.CodigoDoProduto),
			Descricao:                   nullStr(nota.Descricao),
			QuantidadeEstatistica:       nota.QuantidadeEstatistica,
			UnidadeComercial:            nullStr(nota.UnidadeComercial),
			ValorTotalBruto:             nota.ValorTotalBruto,
			QuantidadeConsumida:         nota.QuantidadeConsumida,
			NcmCodigo:                   nullStr(nota.Ncm.Codigo),
			NcmDescricao:                nullStr(nota.Ncm.Descricao),
			NcmUnidadeMedidaEstatistica: nullStr(nota.Ncm.UnidadeMedidaEstatistica),
			Modelo:                      nullStr(nota.NotaFiscal.Modelo),
			Serie:                       nota.NotaFiscal.Serie,
			NumeroDoDocumento:           nota.NotaFiscal.NumeroDoDocumento,
			UfDoEmissor:                 nullStr(nota.NotaFiscal.UfDoEmissor),
			IdentificacaoEmitente:       nullStr(nota.NotaFiscal.IdentificacaoDoEmitente.Numero),
			ApresentadaParaDespacho:     nota.ApresentadaParaDespacho,
			Finalidade:                  nullStr(nota.NotaFiscal.Finalidade),
			QuantidadeDeItens:           nota.NotaFiscal.QuantidadeDeItens,
			NotaFiscalEletronica:        nota.NotaFiscal.NotaFiscalEletronica,
			EmitenteCnpj:                nota.NotaFiscal.IdentificacaoDoEmitente.Cnpj,
			EmitenteCpf:                 nota.NotaFiscal.IdentificacaoDoEmitente.Cpf,
		})
	}

	if nf := item.ItemDaNotaFiscalDeExportacao; nf != nil {
		out.ItemNotasFiscaisExportacao = append(out.ItemNotasFiscaisExportacao, schema.DueItemNotaFiscalExportacao{
			DueItemID:                   itemID,
			NumeroDue:                   numeroDue,
			NumeroItem:                  item.Numero,
			NumeroDoItem:                nf.NumeroDoItem,
			ChaveDeAcesso:               nullStr(nf.NotaFiscal.ChaveDeAcesso),
			Modelo:                      nullStr(nf.NotaFiscal.Modelo),
			Serie:                       nf.NotaFiscal.Serie,
			NumeroDoDocumento:           nf.NotaFiscal.NumeroDoDocumento,
			UfDoEmissor:                 nullStr(nf.NotaFiscal.UfDoEmissor),
			IdentificacaoEmitente:       nullStr(nf.NotaFiscal.IdentificacaoDoEmitente.Numero),
			EmitenteCnpj:                nf.NotaFiscal.IdentificacaoDoEmitente.Cnpj,
			EmitenteCpf:                 nf.NotaFiscal.IdentificacaoDoEmitente.Cpf,
			Finalidade:                  nullStr(nf.NotaFiscal.Finalidade),
			QuantidadeDeItens:           nf.NotaFiscal.QuantidadeDeItens,
			NotaFiscalEletronica:        nf.NotaFiscal.NotaFiscalEletronica,
			Cfop:                        nf.Cfop,
			CodigoDoProduto:             nullStr(nf.CodigoDoProduto),
			Descricao:                   nullStr(nf.Descricao),
			QuantidadeEstatistica:       nf.QuantidadeEstatistica,
			UnidadeComercial:            nullStr(nf.UnidadeComercial),
			ValorTotalCalculado:         nf.ValorTotalCalculado,
			NcmCodigo:                   nullStr(nf.Ncm.Codigo),
			NcmDescricao:                nullStr(nf.Ncm.Descricao),
			NcmUnidadeMedidaEstatistica: nullStr(nf.Ncm.UnidadeMedidaEstatistica),
			ApresentadaParaDespacho:     nf.ApresentadaParaDespacho,
		})
	}

	for idx, nc := range item.ItensDeNotaComplementar {
		out.ItemNotasComplementares = append(out.ItemNotasComplementares, schema.DueItemNotaComplementar{
			DueItemID:             itemID,
			NumeroDue:             numeroDue,
			NumeroItem:            item.Numero,
			Indice:                idx,
			NumeroDoItem:          nc.NumeroDoItem,
			ChaveDeAcesso:         nullStr(nc.NotaFiscal.ChaveDeAcesso),
			Modelo:                nullStr(nc.NotaFiscal.Modelo),
			Serie:                 nc.NotaFiscal.Serie,
			NumeroDoDocumento:     nc.NotaFiscal.NumeroDoDocumento,
			UfDoEmissor:           nullStr(nc.NotaFiscal.UfDoEmissor),
			IdentificacaoEmitente: nullStr(nc.NotaFiscal.IdentificacaoDoEmitente.Numero),
			Cfop:                  nc.Cfop,
			CodigoDoProduto:       nullStr(nc.CodigoDoProduto),
			Descricao:             nullStr(nc.Descricao),
			QuantidadeEstatistica: nc.QuantidadeEstatistica,
			UnidadeComercial:      nullStr(nc.UnidadeComercial),
			ValorTotalBruto:       nc.ValorTotalBruto,
			NcmCodigo:             nullStr(nc.Ncm.Codigo),
		})
	}

	for idx, atr := range item.Atributos {
		out.ItemAtributos = append(out.ItemAtributos, schema.DueItemAtributo{
			DueItemID:  itemID,
			NumeroDue:  numeroDue,
			NumeroItem: item.Numero,
			Indice:     idx,
			Codigo:     nullStr(atr.Codigo),
			Valor:      nullStr(atr.Valor),
			Descricao:  nullStr(atr.Descricao),
		})
	}

	for idx, doc := range item.DocumentosImportacao {
		out.ItemDocumentosImportacao = append(out.ItemDocumentosImportacao, schema.DueItemDocumentoImportacao{
			DueItemID:           itemID,
			NumeroDue:           numeroDue,
			NumeroItem:          item.Numero,
			Indice:              idx,
			Tipo:                nullStr(doc.Tipo),
			Numero:              nullStr(doc.Numero),
			DataRegistro:        doc.DataRegistro.Ptr(),
			ItemDocumento:       doc.ItemDocumento,
			QuantidadeUtilizada: doc.QuantidadeUtilizada,
		})
	}

	for idx, doc := range item.DocumentosDeTransformacao {
		out.ItemDocumentosTransformacao = append(out.ItemDocumentosTransformacao, schema.DueItemDocumentoTransformacao{
			DueItemID:    itemID,
			NumeroDue:    numeroDue,
			NumeroItem:   item.Numero,
			Indice:       idx,
			Tipo:         nullStr(doc.Tipo),
			Numero:       nullStr(doc.Numero),
			DataRegistro: doc.DataRegistro.Ptr(),
		})
	}

	for idx, trat := range item.CalculoTributario.TratamentosTributarios {
		out.ItemCalculoTratamentos = append(out.ItemCalculoTratamentos, schema.DueItemCalculoTributarioTratamento{
			DueItemID:  itemID,
			NumeroDue:  numeroDue,
			NumeroItem: item.Numero,
			Indice:     idx,
			Codigo:     nullStr(trat.Codigo),
			Descricao:  nullStr(trat.Descricao),
			Tipo:       nullStr(trat.Tipo),
			Tributo:    nullStr(trat.Tributo),
		})
	}

	for idx, quadro := range item.CalculoTributario.QuadroDeCalculos {
		out.ItemCalculoQuadros = append(out.ItemCalculoQuadros, schema.DueItemCalculoTributarioQuadro{
			DueItemID:       itemID,
			NumeroDue:       numeroDue,
			NumeroItem:      item.Numero,
			Indice:          idx,
			Tributo:         nullStr(quadro.Tributo),
			BaseDeCalculo:   quadro.BaseDeCalculo,
			Aliquota:        quadro.Aliquota,
			ValorDevido:     quadro.ValorDevido,
			ValorRecolhido:  quadro.ValorRecolhido,
			ValorCompensado: quadro.ValorCompensado,
		})
	}
}

// SuspensionActRows maps raw suspension acts to table rows, used by the
// targeted bonded-acts refresh that replaces only this table.
func SuspensionActRows(numeroDue string, acts []ConcessionaryAct) []schema.DueAtoConcessorioSuspensao {
	rows := make([]schema.DueAtoConcessorioSuspensao, 0, len(acts))
	for _, act := range acts {
		rows = append(rows, schema.DueAtoConcessorioSuspensao{
			ConcessionaryActColumns: actColumns(numeroDue, act),
		})
	}
	return rows
}

func actColumns(numeroDue string, act ConcessionaryAct) schema.ConcessionaryActColumns {
	return schema.ConcessionaryActColumns{
		NumeroDue:                numeroDue,
		AtoNumero:                nullStr(act.Numero),
		TipoCodigo:               act.Tipo.Codigo,
		TipoDescricao:            nullStr(act.Tipo.Descricao),
		ItemNumero:               nullStr(act.Item.Numero),
		ItemNcm:                  nullStr(act.Item.Ncm),
		BeneficiarioCnpj:         nullStr(act.Beneficiario.Cnpj),
		QuantidadeExportada:      act.QuantidadeExportada,
		ValorComCoberturaCambial: act.ValorComCoberturaCambial,
		ValorSemCoberturaCambial: act.ValorSemCoberturaCambial,
		ItemDeDueNumero:          nullStr(act.ItemDeDUE.Numero),
	}
}

// nullStr maps the empty string to a database null.
func nullStr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
